/*
Package config provides typed access to a Pico configuration map.

The host owns the configuration; picocompat only reads it (and hands the
raw map to legacy config_loaded handlers, which may modify it). Accessors
never fail: a missing key or a value of the wrong type yields the default.

	cfg, err := config.FromFile("config/config.yml")
	if err != nil {
	    log.Fatal(err)
	}

	base := cfg.BaseURL()          // base_url
	rewrite := cfg.URLRewriting()  // rewrite_url
	cache := cfg.TwigCache()       // twig_config.cache, "" when disabled

YAML and JSON files are supported. FromDir merges a whole config
directory the way Pico does.
*/
package config
