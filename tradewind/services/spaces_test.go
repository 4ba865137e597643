package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradewind-gg/tradewind/tradewind/config"
)

func TestSpacesItemKeyLayout(t *testing.T) {
	t.Run("defaults to the shared image root", func(t *testing.T) {
		svc, err := NewSpacesService("key", "secret", "nyc3", "bucket", "")
		require.NoError(t, err)
		require.Equal(t, "items/mm2/7.png", svc.itemKey("mm2", 7))
		require.Equal(t, "items/", config.ItemImageRoot)
	})

	t.Run("custom root is trimmed", func(t *testing.T) {
		svc, err := NewSpacesService("key", "secret", "nyc3", "bucket", "/assets/")
		require.NoError(t, err)
		require.Equal(t, "assets/adoptme/12.png", svc.itemKey("adoptme", 12))
	})
}
