package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/assets"
	"github.com/cleared-dev/ledger/internal/config"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.repo
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Chart.Template, "chart", cfg.Chart.Template,
		"built-in chart of accounts ("+strings.Join(accounts.ChartTemplates(), ", ")+")")
	cmd.Flags().StringVar(&cfg.Chart.File, "chart-file", "", "YAML chart of accounts, overrides --chart")
	cmd.Flags().StringVar(&cfg.Assets.File, "assets-file", "", "YAML asset list, replaces the built-in currencies")
	cmd.Flags().StringVar(&cfg.Fund.Name, "fund", cfg.Fund.Name, "name of the initial fund")
	cmd.Flags().StringVar(&cfg.Fund.Currency, "currency", cfg.Fund.Currency, "currency of the initial fund")

	return cmd
}

func runInit(ctx context.Context, w io.Writer, dir string, cfg *config.Config) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Parse everything before touching the directory.
	chart, err := loadChart(dir, cfg.Chart)
	if err != nil {
		return err
	}
	specs, err := loadAssets(dir, cfg.Assets)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(dir, "import"), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	a, err := openApp(dir)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.accounts.Bootstrap(ctx, chart); err != nil {
		return fmt.Errorf("creating chart of accounts: %w", err)
	}
	created, err := a.assets.Bootstrap(ctx, specs)
	if err != nil {
		return fmt.Errorf("creating assets: %w", err)
	}
	cur, err := a.assets.GetByName(ctx, cfg.Fund.Currency)
	if err != nil {
		return fmt.Errorf("fund currency: %w", err)
	}
	fund, err := a.funds.Create(ctx, cfg.Fund.Name, false, cur.ID)
	if err != nil {
		return fmt.Errorf("creating fund: %w", err)
	}

	all, err := a.accounts.List(ctx, 0, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Initialized ledger at %s (%d accounts, %d assets, fund %q in %s)\n",
		dir, len(all), len(created), fund.Name, cur.Name)
	return nil
}

func loadChart(dir string, cc config.ChartConfig) (accounts.ChartNode, error) {
	if cc.File == "" {
		if !slices.Contains(accounts.ChartTemplates(), cc.Template) {
			return accounts.ChartNode{}, fmt.Errorf("unknown chart template %q", cc.Template)
		}
		return accounts.DefaultChart(cc.Template), nil
	}
	data, err := os.ReadFile(resolvePath(dir, cc.File))
	if err != nil {
		return accounts.ChartNode{}, fmt.Errorf("reading chart: %w", err)
	}
	chart, err := accounts.ParseChart(data)
	if err != nil {
		return accounts.ChartNode{}, err
	}
	if err := chart.Validate(); err != nil {
		return accounts.ChartNode{}, err
	}
	return chart, nil
}

func loadAssets(dir string, ac config.AssetsConfig) ([]assets.Spec, error) {
	if ac.File == "" {
		return assets.DefaultAssets(), nil
	}
	data, err := os.ReadFile(resolvePath(dir, ac.File))
	if err != nil {
		return nil, fmt.Errorf("reading assets: %w", err)
	}
	return assets.ParseAssets(data)
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
