package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/rafalstore/storefront/internal/account"
	"github.com/rafalstore/storefront/internal/cart"
	"github.com/rafalstore/storefront/internal/catalog"
	"github.com/rafalstore/storefront/internal/config"
	"github.com/rafalstore/storefront/internal/gateway"
	"github.com/rafalstore/storefront/internal/logging"
	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/session"
	"github.com/rafalstore/storefront/internal/storage"
)

const usage = `usage: storefront <command> [args]

  cart                      show the current cart
  cart add <product> [qty]  add a product to the cart
  cart remove <item>        remove a line item
  cart update <item> <qty>  set a line item's quantity
  cart clear                empty the cart
  products [page]           list products
  product <id>              show one product
  search <query>            search products
  featured                  list products on offer
  bestsellers               list best sellers
  categories                list categories
  login <phone> <password>  log in
  register <name> <phone> <password>
  logout                    log out
  orders                    list order history
  probe                     test the cart API connection`

type app struct {
	cartStore  *cart.Store
	gateway    *gateway.CartGateway
	auth       *gateway.AuthClient
	orders     *gateway.OrdersClient
	products   *catalog.Products
	categories *catalog.Categories
	account    *account.Manager
	pageSize   int
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	store, err := storage.OpenSQLite(cfg.StoragePath)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	sess := session.New(store, logging.Component(logger, "session"))

	gw := gateway.NewCartGateway(cfg.APIBaseURL, store, sess, logging.Component(logger, "cart_gateway"))
	gw.Timeout = cfg.CartTimeout
	gw.ProbeTimeout = cfg.ProbeTimeout
	gw.CacheTTL = cfg.CartCacheTTL

	cartStore := cart.NewStore(gw, logging.Component(logger, "cart"))
	cartStore.Throttle = cfg.RefreshThrottle

	auth := gateway.NewAuthClient(cfg.AuthAPIURL, store, logging.Component(logger, "auth"))
	auth.Timeout = cfg.CartTimeout

	orders := gateway.NewOrdersClient(cfg.AuthAPIURL, store, sess, logging.Component(logger, "orders"))
	orders.Timeout = cfg.ListTimeout

	products := catalog.NewProducts(cfg.APIBaseURL, store, logging.Component(logger, "products"))
	products.Timeout = cfg.ListTimeout
	products.SetCacheTTL(cfg.CatalogCacheTTL)

	categories := catalog.NewCategories(cfg.APIBaseURL, store, logging.Component(logger, "categories"))
	categories.Timeout = cfg.ListTimeout
	categories.SetCacheTTL(cfg.CatalogCacheTTL)

	a := &app{
		gateway:    gw,
		cartStore:  cartStore,
		auth:       auth,
		orders:     orders,
		products:   products,
		categories: categories,
		account:    account.NewManager(store, logging.Component(logger, "account")),
		pageSize:   config.EnvIntDefault("RAFAL_PAGE_SIZE", 20),
	}

	ctx := logging.IntoContext(context.Background(), logger)
	if err := a.run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "cart":
		return a.runCart(ctx, args[1:])
	case "products":
		page := 1
		if len(args) > 1 {
			page, _ = strconv.Atoi(args[1])
		}
		return printJSON(a.products.List(ctx, page, a.pageSize))
	case "product":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront product <id>")
		}
		p, err := a.products.ByID(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(p)
	case "search":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront search <query>")
		}
		return printJSON(a.products.Search(ctx, args[1]))
	case "featured":
		return printJSON(a.products.Featured(ctx))
	case "bestsellers":
		return printJSON(a.products.BestSellers(ctx))
	case "categories":
		return printJSON(a.categories.List(ctx))
	case "login":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront login <phone> <password>")
		}
		user, err := a.auth.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		return printJSON(user)
	case "register":
		if len(args) < 4 {
			return fmt.Errorf("usage: storefront register <name> <phone> <password>")
		}
		user, err := a.auth.Register(ctx, args[1], args[2], args[3])
		if err != nil {
			return err
		}
		return printJSON(user)
	case "logout":
		a.account.Logout(ctx)
		return nil
	case "orders":
		history, err := a.orders.History(ctx)
		if err != nil {
			return err
		}
		return printJSON(history)
	case "probe":
		return printJSON(a.gateway.TestConnection(ctx))
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := a.cartStore.RefreshCart(ctx); err != nil {
			return err
		}
		return a.printCart()
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront cart add <product> [qty]")
		}
		qty := 1
		if len(args) > 2 {
			qty, _ = strconv.Atoi(args[2])
		}
		if err := a.cartStore.AddToCart(ctx, models.Product{ID: args[1]}, qty, 0); err != nil {
			return err
		}
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront cart remove <item>")
		}
		if err := a.cartStore.RemoveFromCart(ctx, args[1]); err != nil {
			return err
		}
	case "update":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront cart update <item> <qty>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		// Seed local state so the product id can be resolved from it.
		if err := a.cartStore.RefreshCart(ctx); err != nil {
			return err
		}
		if err := a.cartStore.UpdateQuantity(ctx, args[1], qty); err != nil {
			return err
		}
	case "clear":
		if err := a.cartStore.ClearCart(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
	return a.printCart()
}

func (a *app) printCart() error {
	state := a.cartStore.Snapshot()
	return printJSON(map[string]any{
		"cart_id":    state.CartID,
		"items":      state.Items,
		"total":      state.Total,
		"item_count": state.ItemCount,
		"delivery":   state.DeliveryFee,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
