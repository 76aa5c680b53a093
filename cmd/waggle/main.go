// Command waggle es la CLI operativa: claves, tokens de soporte, sesiones y migraciones.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/waggle/internal/cache"
	"github.com/dropDatabas3/waggle/internal/config"
	"github.com/dropDatabas3/waggle/internal/jwt"
	"github.com/dropDatabas3/waggle/internal/store/pg"
	migrations "github.com/dropDatabas3/waggle/migrations/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warn: .env:", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "waggle",
		Short:         "CLI operativa de waggle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("CONFIG_PATH", config.DefaultPath), "Archivo de configuración (env CONFIG_PATH)")

	load := func() (*config.Config, error) { return config.Load(cfgPath) }

	root.AddCommand(newKeygenCmd())
	root.AddCommand(newTokenCmd(load))
	root.AddCommand(newSessionCmd(load))
	root.AddCommand(newMigrateCmd(load))
	return root
}

type loader func() (*config.Config, error)

func newKeygenCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Genera un JWT_SECRET_KEY aleatorio (base64)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < jwt.MinKeyBytes {
				return fmt.Errorf("--bytes debe ser >= %d", jwt.MinKeyBytes)
			}
			s, err := jwt.NewSecret(n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "bytes", 64, "Tamaño de la clave en bytes (64 => HS512)")
	return cmd
}

func newTokenCmd(load loader) *cobra.Command {
	tokenCmd := &cobra.Command{Use: "token", Short: "Emitir o inspeccionar access tokens"}

	codec := func() (*jwt.Codec, error) {
		cfg, err := load()
		if err != nil {
			return nil, err
		}
		return jwt.NewCodec(jwt.Config{Secret: cfg.JWT.SecretKey})
	}

	var sub string
	var ttl time.Duration
	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Firma un access token para --sub (soporte / pruebas)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sub == "" {
				return fmt.Errorf("--sub es requerido")
			}
			c, err := codec()
			if err != nil {
				return err
			}
			tok, err := c.Issue(sub, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	mintCmd.Flags().StringVar(&sub, "sub", "", "User ID (UUID)")
	mintCmd.Flags().DurationVar(&ttl, "ttl", 30*time.Minute, "Vigencia del token")

	inspectCmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Valida la firma y muestra los claims (incluye expirados)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec()
			if err != nil {
				return err
			}
			claims, err := c.Inspect(args[0])
			if err != nil {
				return err
			}
			expired, _ := c.IsExpired(args[0])
			out := map[string]any{
				"alg":     c.Alg(),
				"claims":  claims,
				"expired": expired,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	tokenCmd.AddCommand(mintCmd, inspectCmd)
	return tokenCmd
}

func newSessionCmd(load loader) *cobra.Command {
	sessionCmd := &cobra.Command{Use: "session", Short: "Operaciones sobre el session store"}

	var userID string
	revokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "Borra el refresh token activo de un usuario (fuerza re-login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user es requerido")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			// con memory el CLI abriría un store propio y vacío: el del servicio no se toca
			if !strings.EqualFold(strings.TrimSpace(cfg.Cache.Kind), "redis") {
				return fmt.Errorf("session revoke needs a shared (redis) session store; cache.kind=%q", cfg.Cache.Kind)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			st, err := cache.New(ctx, cache.Config{
				Kind:      cfg.Cache.Kind,
				Addr:      cfg.Cache.Redis.Addr,
				Password:  cfg.Cache.Redis.Password,
				DB:        cfg.Cache.Redis.DB,
				Prefix:    cfg.Cache.Redis.Prefix,
				OpTimeout: cfg.Cache.OpTimeout,
			})
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Delete(ctx, cache.RefreshKey(userID)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked refresh for %s\n", userID)
			return nil
		},
	}
	revokeCmd.Flags().StringVar(&userID, "user", "", "User ID (UUID)")

	sessionCmd.AddCommand(revokeCmd)
	return sessionCmd
}

func newMigrateCmd(load loader) *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de Postgres pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				cfg, err := load()
				if err != nil {
					return err
				}
				dsn = cfg.Storage.DSN
			}
			if dsn == "" {
				return fmt.Errorf("falta DSN (--dsn o storage.dsn)")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			s, err := pg.Connect(ctx, pg.Config{DSN: dsn})
			if err != nil {
				return err
			}
			defer s.Close()
			res, err := s.Migrate(ctx, migrations.FS, migrations.Dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied=%v skipped=%v in %s\n", res.Applied, res.Skipped, res.Duration)
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "DSN de Postgres (default storage.dsn)")
	return cmd
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
