package collector

import (
	"socialpulse/pkg/config"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/models"
	"socialpulse/pkg/platforms"
	"socialpulse/pkg/platforms/instagram"
	"socialpulse/pkg/platforms/tiktok"
	"socialpulse/pkg/platforms/twitter"
	"socialpulse/pkg/platforms/youtube"
)

// DefaultAdapters builds the adapter set for every enabled platform.
func DefaultAdapters(cfg *config.Config, keys platforms.KeySource, doer platforms.Doer, log logger.Logger) map[models.Platform]platforms.Adapter {
	adapters := make(map[models.Platform]platforms.Adapter)

	if cfg.Instagram.Enabled {
		adapters[models.PlatformInstagram] = instagram.New(cfg.Instagram, keys, doer, log)
	}
	if cfg.TikTok.Enabled {
		adapters[models.PlatformTikTok] = tiktok.New(cfg.TikTok, keys, doer, log)
	}
	if cfg.YouTube.Enabled {
		adapters[models.PlatformYouTube] = youtube.New(cfg.YouTube, keys, doer, log)
	}
	if cfg.Twitter.Enabled {
		adapters[models.PlatformTwitter] = twitter.New(cfg.Twitter, keys, doer, log)
	}

	return adapters
}
