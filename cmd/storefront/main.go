// Command storefront is a terminal front end for the remote shop API: it
// fetches the catalog, runs the projection pipeline over it and prints the
// selected page, with optional authenticated cart/wishlist summaries.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mkrylov/storefront/internal/backend"
	"github.com/mkrylov/storefront/internal/catalog"
	"github.com/mkrylov/storefront/internal/session"
	"github.com/mkrylov/storefront/pkg/config"
	"github.com/mkrylov/storefront/pkg/config/configloader"
	"github.com/mkrylov/storefront/pkg/logger"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const serviceName = "storefront"

// defaultBackendURL is used when neither the flag nor configuration names
// a backend.
const defaultBackendURL = "http://localhost:8080/api"

func main() {
	var (
		backendURL = pflag.String("backend", "", "base URL of the storefront API (falls back to config.yaml / STOREFRONT_BACKEND_URL)")
		search     = pflag.String("search", "", "search products by name")
		newOnly    = pflag.Bool("new", false, "show only new arrivals")
		category   = pflag.String("category", "", "filter by category")
		tag        = pflag.String("tag", "", "filter by tag")
		sortOrder  = pflag.String("sort", catalog.SortDefault, "sort order: default, priceHighToLow, priceLowToHigh")
		discount   = pflag.Int("discount", 0, "keep only products discounted at least this much (percent)")
		page       = pflag.Int("page", 1, "page number")
		pageSize   = pflag.Int("page-size", catalog.DefaultPageSize, "products per page")
		token      = pflag.String("token", "", "bearer token for cart/wishlist summaries")
		timeout    = pflag.Duration("timeout", 10*time.Second, "request timeout")
		logLevel   = pflag.String("log-level", "error", "log level: debug, info, warn, error")
	)
	pflag.Parse()

	opts := options{
		backendURL: *backendURL,
		search:     *search,
		newOnly:    *newOnly,
		category:   *category,
		tag:        *tag,
		sortOrder:  *sortOrder,
		discount:   *discount,
		page:       *page,
		pageSize:   *pageSize,
		token:      *token,
		timeout:    *timeout,
		logLevel:   *logLevel,
	}
	resolveBackend(&opts, pflag.CommandLine.Changed("timeout"))

	if err := run(context.Background(), opts); err != nil {
		log.Printf("storefront failed: %v", err)
		os.Exit(1)
	}
}

// settings is the configurable subset of the CLI, loaded through the same
// koanf stack as the services (config.yaml, .env, STOREFRONT_* env vars).
type settings struct {
	Backend config.BackendConfig `koanf:"backend"`
}

func (s *settings) Validate() error {
	return s.Backend.Validate()
}

// resolveBackend fills in the backend URL and timeout when the flags left
// them unset: flag first, then configuration, then the built-in default.
func resolveBackend(opts *options, timeoutSet bool) {
	if opts.backendURL != "" {
		return
	}
	if cfg, err := configloader.Load[*settings](serviceName); err == nil {
		opts.backendURL = cfg.Backend.URL
		if cfg.Backend.Timeout > 0 && !timeoutSet {
			opts.timeout = cfg.Backend.Timeout
		}
		return
	}
	opts.backendURL = defaultBackendURL
}

type options struct {
	backendURL string
	search     string
	newOnly    bool
	category   string
	tag        string
	sortOrder  string
	discount   int
	page       int
	pageSize   int
	token      string
	timeout    time.Duration
	logLevel   string
}

func run(ctx context.Context, opts options) error {
	mLogger := logger.New(opts.logLevel)

	store := session.NewMemoryStore()
	if opts.token != "" {
		store.SetToken(opts.token)
	}

	client := backend.NewClient(opts.backendURL, store, mLogger,
		backend.WithHTTPClient(&http.Client{
			Timeout:   opts.timeout,
			Transport: backend.NewBreakerTransport("storefront-api", nil),
		}),
	)

	products, err := fetchProducts(ctx, client, opts)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	offset := (opts.page - 1) * opts.pageSize
	result := catalog.Project(products, directives(opts), offset, opts.pageSize)
	printPage(result, opts)

	if opts.token != "" {
		if err := printSummaries(ctx, client); err != nil {
			return err
		}
	}
	return nil
}

func fetchProducts(ctx context.Context, client *backend.Client, opts options) ([]catalog.Product, error) {
	switch {
	case opts.search != "":
		return client.SearchProducts(ctx, opts.search)
	case opts.newOnly:
		return client.NewProducts(ctx)
	default:
		return client.Products(ctx)
	}
}

func directives(opts options) []catalog.Directive {
	var ds []catalog.Directive
	if opts.category != "" {
		ds = append(ds, catalog.Directive{Kind: catalog.KindCategory, Value: opts.category})
	}
	if opts.discount > 0 {
		ds = append(ds, catalog.Directive{Kind: catalog.KindDiscount, Threshold: opts.discount})
	}
	if opts.sortOrder != "" {
		ds = append(ds, catalog.Directive{Kind: catalog.KindSort, Value: opts.sortOrder})
	}
	if opts.tag != "" {
		ds = append(ds, catalog.Directive{Kind: catalog.KindTag, Value: opts.tag})
	}
	return ds
}

func printPage(result catalog.Page, opts options) {
	totalPages := (result.TotalCount + opts.pageSize - 1) / opts.pageSize
	fmt.Printf("Page %d/%d — %d products total\n\n", opts.page, max(totalPages, 1), result.TotalCount)
	for _, p := range result.Items {
		line := fmt.Sprintf("%6d  %-40s  %8.2f", p.ID, p.Name, p.Price)
		if discounted, ok := catalog.DiscountPrice(p.Price, p.Discount); ok {
			line += fmt.Sprintf("  -> %8.2f (-%d%%)", discounted, p.Discount)
		}
		if !p.InStock() {
			line += "  [out of stock]"
		}
		fmt.Println(line)
	}
}

// printSummaries fetches the two badge counters concurrently, the way the
// header does after a notification event.
func printSummaries(ctx context.Context, client *backend.Client) error {
	var cartCount, wishlistCount int

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := client.CartCount(gCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch cart count: %w", err)
		}
		cartCount = count
		return nil
	})
	g.Go(func() error {
		items, err := client.Wishlist(gCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch wishlist: %w", err)
		}
		wishlistCount = len(items)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("\nCart: %d item(s), wishlist: %d item(s)\n", cartCount, wishlistCount)
	return nil
}
