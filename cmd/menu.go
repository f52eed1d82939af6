package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alidoner/orderbot/internal/menu"
)

func newMenuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the menu and the keys used to match customer text",
		Long: `Print every menu item with its price and the normalized keys
the slot extractor matches against. Use --file to check a YAML menu
before pointing MENU_FILE at it.`,
		RunE: runMenu,
	}

	cmd.Flags().String("file", "", "YAML menu file (defaults to the built-in menu)")

	return cmd
}

func runMenu(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("getting file flag: %w", err)
	}

	catalog, err := loadCatalog(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, item := range catalog.Items() {
		fmt.Fprintf(out, "%2d. %-22s %6d₸  [%s]\n", i+1, item.Name, item.Price, strings.Join(catalog.Keys(i), ", "))
	}
	return nil
}

func loadCatalog(path string) (*menu.Catalog, error) {
	if path == "" {
		return menu.Default(), nil
	}
	catalog, err := menu.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading menu: %w", err)
	}
	return catalog, nil
}
