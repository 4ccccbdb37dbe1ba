package cmd

import (
	"fmt"

	"WorshipHub/cache"

	"github.com/spf13/cobra"
)

var redisClear bool

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis cache backend",
	Long:  `Connects to the configured Redis server, performs a write/read/delete round trip and lists the cached keys of this namespace.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fmt.Fprintf(cmd.OutOrStdout(), "Redis: %s, DB: %d, namespace: %s\n", cfg.RedisAddr(), cfg.RedisDB, cfg.CacheNamespace)

		store, err := cache.ConnectRedis(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Check(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "connection ok")

		if redisClear {
			if err := store.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "namespace cleared")
		}

		keys, err := store.Keys(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d cached keys\n", len(keys))
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), " ", k)
		}
		return nil
	},
}

func init() {
	redisCmd.Flags().BoolVar(&redisClear, "clear", false, "delete every cached key of the namespace")
	rootCmd.AddCommand(redisCmd)
}
