package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTickersFromFile(t *testing.T) {
	t.Run("txt", func(t *testing.T) {
		path := writeFile(t, "tickers.txt", "# watchlist\naapl\n\n  MSFT \nAAPL\n#spy\nqqq\n")
		tickers, err := LoadTickersFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"AAPL", "MSFT", "QQQ"}, tickers)
	})
	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "tickers.json", `["spy", "SPY", " iwm ", ""]`)
		tickers, err := LoadTickersFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"SPY", "IWM"}, tickers)
	})
	t.Run("bad json", func(t *testing.T) {
		_, err := LoadTickersFromFile(writeFile(t, "tickers.json", `{"a":1}`))
		assert.ErrorContains(t, err, "parse JSON")
	})
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := LoadTickersFromFile(writeFile(t, "tickers.csv", "AAPL"))
		assert.ErrorContains(t, err, "unsupported ticker file extension")
	})
	t.Run("missing", func(t *testing.T) {
		_, err := LoadTickersFromFile("does-not-exist.txt")
		assert.Error(t, err)
	})
}
