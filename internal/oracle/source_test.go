package oracle

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(map[string]float64{"ETH-PERP": 3500})

	p, ok := src.Price("ETH-PERP")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.NewFromInt(3500)))

	_, ok = src.Price("DOGE-PERP")
	assert.False(t, ok)
}

func TestLayered_PrefersFirstSource(t *testing.T) {
	feed := NewFeed("ws://unused", time.Minute)
	feed.handleMessage([]byte(`{"market":"ETH-PERP","price":"3600.25"}`))

	static := NewStaticSource(map[string]float64{"ETH-PERP": 3500, "BTC-PERP": 65000})
	layered := NewLayered(feed, static)

	p, ok := layered.Price("ETH-PERP")
	require.True(t, ok)
	assert.Equal(t, "3600.25", p.String())

	// not on the feed, falls through to static
	p, ok = layered.Price("BTC-PERP")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.NewFromInt(65000)))
}

func TestFeed_StaleTickNotServed(t *testing.T) {
	feed := NewFeed("ws://unused", time.Millisecond)
	feed.handleMessage([]byte(`{"market":"ETH-PERP","price":"3600"}`))

	time.Sleep(5 * time.Millisecond)

	_, ok := feed.Price("ETH-PERP")
	assert.False(t, ok)
}

func TestFeed_IgnoresMalformedMessages(t *testing.T) {
	feed := NewFeed("ws://unused", time.Minute)
	feed.handleMessage([]byte(`not json`))
	feed.handleMessage([]byte(`{"market":"","price":"1"}`))
	feed.handleMessage([]byte(`{"market":"ETH-PERP","price":"abc"}`))

	_, ok := feed.Price("ETH-PERP")
	assert.False(t, ok)
}
