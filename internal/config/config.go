// Package config binds the deployment's environment variables to a
// typed Config via github.com/spf13/viper's AutomaticEnv/BindEnv, with
// an optional YAML file overlay read first so env vars always win.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every tunable option for one batch run.
type Config struct {
	K           int     `mapstructure:"min_hash_k_value"`
	B           int     `mapstructure:"lsh_num_bands"`
	R           int     `mapstructure:"lsh_band_width"`
	M           uint64  `mapstructure:"lsh_num_buckets"`
	WindowSecs  int64   `mapstructure:"time_window"`
	Tau         float64 `mapstructure:"dup_question_min_hash_threshold"`
	RedisServer string  `mapstructure:"redis_server"`
	LogDebug    bool    `mapstructure:"log_debug"`
}

// Default returns the calibration used by the original deployment:
// K=128 permutations, B=32 bands of R=4 rows, M=2^63 buckets, a
// one-day time window, and τ=0.8.
func Default() Config {
	return Config{
		K:           128,
		B:           32,
		R:           4,
		M:           1 << 63, // large enough that accidental bucket collisions across unequal row-tuples are negligible
		WindowSecs:  86400,
		Tau:         0.8,
		RedisServer: "localhost:6379",
		LogDebug:    false,
	}
}

// Load builds a Config from Default(), an optional YAML file at
// configPath (skipped if configPath is empty; a path that cannot be
// read is an error), and finally environment variables, which take
// precedence over both.
func Load(configPath string) (Config, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("min_hash_k_value", d.K)
	v.SetDefault("lsh_num_bands", d.B)
	v.SetDefault("lsh_band_width", d.R)
	v.SetDefault("lsh_num_buckets", d.M)
	v.SetDefault("time_window", d.WindowSecs)
	v.SetDefault("dup_question_min_hash_threshold", d.Tau)
	v.SetDefault("redis_server", d.RedisServer)
	v.SetDefault("log_debug", d.LogDebug)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	v.AutomaticEnv()
	_ = v.BindEnv("min_hash_k_value", "MIN_HASH_K_VALUE")
	_ = v.BindEnv("lsh_num_bands", "LSH_NUM_BANDS")
	_ = v.BindEnv("lsh_band_width", "LSH_BAND_WIDTH")
	_ = v.BindEnv("lsh_num_buckets", "LSH_NUM_BUCKETS")
	_ = v.BindEnv("time_window", "TIME_WINDOW")
	_ = v.BindEnv("dup_question_min_hash_threshold", "DUP_QUESTION_MIN_HASH_THRESHOLD")
	_ = v.BindEnv("redis_server", "REDIS_SERVER")
	_ = v.BindEnv("log_debug", "LOG_DEBUG")

	var cfg Config
	cfg.K = v.GetInt("min_hash_k_value")
	cfg.B = v.GetInt("lsh_num_bands")
	cfg.R = v.GetInt("lsh_band_width")
	cfg.M = uint64(v.GetInt64("lsh_num_buckets"))
	cfg.WindowSecs = v.GetInt64("time_window")
	cfg.Tau = v.GetFloat64("dup_question_min_hash_threshold")
	cfg.RedisServer = v.GetString("redis_server")
	cfg.LogDebug = v.GetBool("log_debug")

	if cfg.B*cfg.R != cfg.K {
		return Config{}, fmt.Errorf("config: K=%d must equal B*R (%d*%d=%d)", cfg.K, cfg.B, cfg.R, cfg.B*cfg.R)
	}
	return cfg, nil
}
