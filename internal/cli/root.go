// Package cli implements the rtadmin command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-rtadmin/internal/config"
	"github.com/jeremyhahn/go-rtadmin/pkg/pipeline"
	"github.com/jeremyhahn/go-rtadmin/pkg/pkcs11"
	"github.com/jeremyhahn/go-rtadmin/pkg/store"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
	"github.com/jeremyhahn/go-rtadmin/pkg/volume"
)

// DeviceFactory opens the token selected by cfg.
type DeviceFactory func(cfg *config.Config) (token.Device, error)

// NativeDevice drives the token through the system PKCS#11 provider.
func NativeDevice(cfg *config.Config) (token.Device, error) {
	return pkcs11.NewToken(pkcs11.Config{
		ModulePath: cfg.Module,
		TokenLabel: cfg.TokenLabel,
		Slot:       cfg.Slot,
	}, nil)
}

// NewRootCommand returns the rtadmin command. Operations run in a fixed
// order regardless of the order of the flags.
func NewRootCommand(open DeviceFactory) *cobra.Command {
	v := config.New()
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "rtadmin",
		Short: "Administer Rutoken PKCS#11 tokens",
		Long: `rtadmin formats tokens, changes and generates PINs, writes labels and
manages the flash drive of Rutoken devices.

Examples:
  rtadmin -o 87654321 -u 1234            # change the user PIN as admin
  rtadmin -f -L "HR dept" -G 8 -g 6      # format with generated PINs
  rtadmin --format-drive u:512:rw,a:*:hi # partition the flash drive`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.parsed(cmd.Flags())
			return run(cmd, v, f, open)
		},
	}

	global := cmd.PersistentFlags()
	global.StringVar(&f.configFile, "config", "", "config file (default ./rtadmin.yaml or ~/.config/rtadmin/rtadmin.yaml)")
	global.String("module", "", "path of the PKCS#11 library")
	global.String("slot", "", "slot id of the token")
	global.String("token-label", "", "select the token by label")
	global.String("log-level", "", "log level: debug, info, warn or error")
	global.String("log-format", "", "log format: text or json")
	bindFlags(v, global, map[string]string{
		"module":      "module",
		"slot":        "slot",
		"token_label": "token-label",
		"log.level":   "log-level",
		"log.format":  "log-format",
	})

	f.register(cmd.Flags())
	return cmd
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("cli: bind %s: %v", name, err))
		}
	}
}

func run(cmd *cobra.Command, v *viper.Viper, f *flags, open DeviceFactory) error {
	ctx := cmd.Context()

	cfg, err := config.Load(v, f.configFile)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts, err := f.options()
	if err != nil {
		return err
	}

	owners := volume.DefaultOwners()
	if f.pin2Owner != "" {
		if err := owners.SetPIN2Owner(f.pin2Owner); err != nil {
			return err
		}
	}

	pcfg := pipeline.Config{Logger: logger, Out: cmd.OutOrStdout(), Owners: owners}
	if f.fromPool {
		path := f.poolFile
		if path == "" {
			path = cfg.PINPool
		}
		if path == "" {
			return fmt.Errorf("cli: --from-pool needs --pin-pool or pin_pool in the config")
		}
		pool, err := store.LoadPINPool(path)
		if err != nil {
			return err
		}
		logger.Debug("PIN pool loaded", "path", path, "remaining", pool.Remaining())
		pcfg.Pool = pool
	}

	dev, err := open(cfg)
	if err != nil {
		return err
	}

	b := pipeline.New(pcfg)
	if err := b.Configure(ctx, dev, opts); err != nil {
		return err
	}
	f.plan(b)
	if b.Pending() == 0 {
		logger.Warn("nothing to do")
		return nil
	}
	return b.Execute(ctx)
}
