package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/spachava753/webmall-eval/internal/models"
)

// Environment variables carrying the WebMall site URLs.
const (
	EnvShop1URL    = "SHOP1_URL"
	EnvShop2URL    = "SHOP2_URL"
	EnvShop3URL    = "SHOP3_URL"
	EnvShop4URL    = "SHOP4_URL"
	EnvFrontendURL = "FRONTEND_URL"
)

// DefaultSites returns the site configuration with the WebMall shop names and
// no URLs.
func DefaultSites() models.Sites {
	return models.Sites{
		ShopNames: []string{"E-Store Athletes", "TechTalk", "CamelCases", "Hardware Cafe"},
	}
}

// LoadSites reads an optional sites.toml and overlays the URL environment
// variables. An empty path skips the file.
func LoadSites(path string, lookup func(string) (string, bool)) (models.Sites, error) {
	sites := DefaultSites()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return sites, fmt.Errorf("reading sites config: %w", err)
		}

		md, err := toml.Decode(string(data), &sites)
		if err != nil {
			return sites, fmt.Errorf("parsing sites config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return sites, fmt.Errorf("parsing sites config: unknown keys %v", undecoded)
		}

		// A partial shop_names list keeps the defaults for the rest
		defaults := DefaultSites().ShopNames
		if len(sites.ShopNames) > len(defaults) {
			return sites, fmt.Errorf("parsing sites config: at most %d shop_names allowed", len(defaults))
		}
		names := make([]string, len(defaults))
		for i := range defaults {
			names[i] = defaults[i]
			if i < len(sites.ShopNames) && sites.ShopNames[i] != "" {
				names[i] = sites.ShopNames[i]
			}
		}
		sites.ShopNames = names
	}

	overrides := []struct {
		key string
		dst *string
	}{
		{EnvShop1URL, &sites.Shop1URL},
		{EnvShop2URL, &sites.Shop2URL},
		{EnvShop3URL, &sites.Shop3URL},
		{EnvShop4URL, &sites.Shop4URL},
		{EnvFrontendURL, &sites.FrontendURL},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && v != "" {
			*o.dst = v
		}
	}

	return sites, nil
}
