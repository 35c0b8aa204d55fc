package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/localnerve/itemsetgroup/internal/iiif"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/localnerve/itemsetgroup/internal/types"
	"github.com/spf13/cobra"
)

var (
	resolveSize int
	resolveMode string
	resolveSite string
	resolveHTML bool

	persistMedia int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <item-set-id>",
	Short: "Resolve the thumbnail of an item set",
	Long: `Resolve prints the thumbnail URL of an item set and the tier that produced
it: mapped_media, mapped_item, first_item, item_set or placeholder.

Example:
  isgctl resolve 42 --size 400
  isgctl resolve 42 --site demo --html`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

var persistCmd = &cobra.Command{
	Use:   "persist <item-set-id> <item-id>",
	Short: "Set the representative item of an item set",
	Args:  cobra.ExactArgs(2),
	RunE:  runPersist,
}

var clearCmd = &cobra.Command{
	Use:   "clear <item-set-id>",
	Short: "Remove the representative of an item set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := positiveArg(args[0], "item set id")
		if err != nil {
			return err
		}
		svc, err := services.NewApp(cfg, db)
		if err != nil {
			return err
		}
		return svc.Representatives.Clear(contextOf(cmd), id)
	},
}

func init() {
	resolveCmd.Flags().IntVar(&resolveSize, "size", 0, "pixel size (default THUMBNAIL_SIZE)")
	resolveCmd.Flags().StringVar(&resolveMode, "mode", "", "square or full")
	resolveCmd.Flags().StringVar(&resolveSite, "site", "", "site slug supplying the theme settings")
	resolveCmd.Flags().BoolVar(&resolveHTML, "html", false, "print the thumbnail markup")

	persistCmd.Flags().IntVar(&persistMedia, "media", 0, "media of the item to use")
}

func runResolve(cmd *cobra.Command, args []string) error {
	id, err := positiveArg(args[0], "item set id")
	if err != nil {
		return err
	}
	svc, err := services.NewApp(cfg, db)
	if err != nil {
		return err
	}

	ctx := contextOf(cmd)
	opts := services.ResolveOptions{Size: resolveSize, Viewer: types.System}
	if resolveMode != "" {
		opts.Mode = iiif.ParseMode(resolveMode)
	}
	if resolveSite != "" {
		if opts.Site, err = svc.Store.Site(ctx, resolveSite); err != nil {
			return err
		}
	}

	if resolveHTML {
		markup, _ := svc.Resolver.ResolveHTML(ctx, id, opts)
		fmt.Println(string(markup))
		return nil
	}
	res := svc.Resolver.Resolve(ctx, id, opts)
	if res.URL == "" {
		res = services.Resolution{URL: svc.Resolver.Placeholder(), Tier: services.TierPlaceholder}
	}
	return printJSON(res)
}

func runPersist(cmd *cobra.Command, args []string) error {
	setID, err := positiveArg(args[0], "item set id")
	if err != nil {
		return err
	}
	itemID, err := positiveArg(args[1], "item id")
	if err != nil {
		return err
	}
	svc, err := services.NewApp(cfg, db)
	if err != nil {
		return err
	}

	ctx := contextOf(cmd)
	result := svc.Representatives.Persist(ctx, setID, itemID, persistMedia)
	switch result {
	case services.PersistRejected:
		return fmt.Errorf("item %d is not a member of item set %d", itemID, setID)
	case services.PersistUnavailable:
		return fmt.Errorf("representative storage is unavailable")
	case services.PersistSkipped:
		return fmt.Errorf("nothing to store")
	}
	filled := svc.Backfiller.AssignThumbnail(ctx, setID)
	return printJSON(map[string]any{"result": result.String(), "thumbnail_filled": filled})
}

func positiveArg(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return n, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
