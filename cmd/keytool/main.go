// keytool encrypts a wallet private key into the stored row format and
// writes it to the database. Used by operators during wallet setup; the
// gateway itself never creates key rows.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/chain"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/keyvault"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/repository"
)

func main() {
	var (
		userID     = flag.String("user", "", "user id owning the wallet")
		password   = flag.String("password", "", "encryption password")
		privateKey = flag.String("key", "", "hex private key (0x prefix optional)")
		dryRun     = flag.Bool("dry-run", false, "print the row as JSON instead of writing it")
	)
	flag.Parse()

	if *userID == "" || *password == "" || *privateKey == "" {
		flag.Usage()
		os.Exit(2)
	}

	// derive the address up front so a bad key fails before encryption
	wallet, err := chain.NewWallet(*privateKey)
	if err != nil {
		log.Fatalf("invalid private key: %v", err)
	}

	row, err := keyvault.Encrypt(*userID, wallet.Address().Hex(), *password, *privateKey)
	if err != nil {
		log.Fatalf("encryption failed: %v", err)
	}

	if *dryRun {
		out, _ := json.MarshalIndent(row, "", "  ")
		fmt.Println(string(out))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := repository.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.Create(row).Error; err != nil {
		log.Fatalf("failed to store key row: %v", err)
	}
	fmt.Printf("stored wallet key for %s (address %s)\n", *userID, wallet.Address().Hex())
}
