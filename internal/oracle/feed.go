package oracle

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/logger"
	"github.com/shopspring/decimal"
)

// Feed is a websocket index-price client. It keeps the last tick per market
// and refuses to serve anything older than staleAfter.
type Feed struct {
	url        string
	staleAfter time.Duration

	mu     sync.RWMutex
	prices map[string]tick
	done   chan struct{}
}

type tick struct {
	price decimal.Decimal
	at    time.Time
}

type feedMessage struct {
	Market string `json:"market"`
	Price  string `json:"price"`
}

func NewFeed(url string, staleAfter time.Duration) *Feed {
	if staleAfter <= 0 {
		staleAfter = 30 * time.Second
	}
	return &Feed{
		url:        url,
		staleAfter: staleAfter,
		prices:     make(map[string]tick),
		done:       make(chan struct{}),
	}
}

func (f *Feed) Start() {
	go f.run()
}

func (f *Feed) Stop() {
	close(f.done)
}

func (f *Feed) Price(market string) (decimal.Decimal, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.prices[market]
	if !ok || time.Since(t.at) > f.staleAfter {
		return decimal.Zero, false
	}
	return t.price, true
}

func (f *Feed) run() {
	backoff := time.Second
	for {
		select {
		case <-f.done:
			return
		default:
		}

		if err := f.connectAndRead(); err != nil {
			logger.Warn("price feed disconnected", "error", err, "retry_in", backoff.String())
		}

		select {
		case <-f.done:
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (f *Feed) connectAndRead() error {
	conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("price feed connected", "url", f.url)

	for {
		select {
		case <-f.done:
			return nil
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		f.handleMessage(raw)
	}
}

func (f *Feed) handleMessage(raw []byte) {
	var msg feedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	price, err := decimal.NewFromString(msg.Price)
	if err != nil || msg.Market == "" {
		return
	}

	f.mu.Lock()
	f.prices[msg.Market] = tick{price: price, at: time.Now()}
	f.mu.Unlock()
}
