package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
	"github.com/nithinv16/DukaaOnWebsite/internal/geolocation"
	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
	"github.com/nithinv16/DukaaOnWebsite/pkg/client"
)

// nearby prints sellers around the caller.
// Location: --lat/--lng if given, else a cached fix, else the API's IP lookup.
func main() {
	var (
		apiURL   = flag.String("api", envOr("DUKAAON_API_URL", "http://localhost:3000/v1"), "API base URL")
		lat      = flag.Float64("lat", 0, "latitude (with --lng)")
		lng      = flag.Float64("lng", 0, "longitude (with --lat)")
		radius   = flag.Float64("radius", 0, "search radius in km (server default 100)")
		category = flag.String("category", "", "category tag")
		bizType  = flag.String("type", "", "wholesaler or manufacturer")
		page     = flag.Int("page", 1, "page number")
		limit    = flag.Int("limit", 20, "results per page")
		reset    = flag.Bool("reset", false, "forget the cached location first")
		cacheDir = flag.String("cache-dir", "", "location cache directory (default: user cache dir)")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	env := "production"
	if *verbose {
		env = "development"
	}
	_ = logger.Init(env)
	defer logger.Sync()
	log := logger.GetLogger("nearby")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := *cacheDir
	if dir == "" {
		d, err := geolocation.DefaultFileStoreDir()
		if err != nil {
			log.Fatalf("No cache directory: %v", err)
		}
		dir = d
	}
	store, err := geolocation.NewFileStore(dir)
	if err != nil {
		log.Fatalf("Failed to open location cache: %v", err)
	}

	var device geolocation.StaticDevice
	latSet, lngSet := flagSet("lat"), flagSet("lng")
	if latSet != lngSet {
		log.Fatal("--lat and --lng must be given together")
	}
	if latSet {
		device.Position = &geo.Coordinates{Latitude: *lat, Longitude: *lng}
	}

	api := client.New(*apiURL)
	locator := geolocation.NewLocator(store, device,
		geolocation.WithFallback(client.NewLocationProvider(api)),
		geolocation.WithLocatorLogger(log),
	)

	if *reset || latSet {
		// 직접 입력한 좌표가 캐시보다 우선
		locator.ResetLocation(ctx)
	}
	locator.Init(ctx)
	if locator.State().Status != geolocation.StatusSuccess {
		if err := locator.RequestLocation(ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	state := locator.State()

	qctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	resp, err := api.FetchSellers(qctx, client.SellerQuery{
		Latitude:     state.Coordinates.Latitude,
		Longitude:    state.Coordinates.Longitude,
		Radius:       *radius,
		BusinessType: *bizType,
		Category:     *category,
		Page:         *page,
		Limit:        *limit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch sellers: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Location %.4f, %.4f (%s)\n", state.Coordinates.Latitude, state.Coordinates.Longitude, state.Source)
	if resp.TotalCount == 0 {
		fmt.Println("No sellers found. Try a larger --radius.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DISTANCE\tNAME\tTYPE\tCITY\tID")
	for _, s := range resp.Sellers {
		dist := "-"
		if s.Distance != nil {
			dist = fmt.Sprintf("%.1f km", *s.Distance)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", dist, s.BusinessName, s.BusinessType, s.Location.City, s.ID)
	}
	w.Flush()
	fmt.Printf("Page %d of %d (%d sellers)\n", resp.Page, resp.TotalPages, resp.TotalCount)
}

func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
