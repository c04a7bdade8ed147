package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bokwoon95/pagemanager/blog"
	"github.com/bokwoon95/pagemanager/pagemanager"
	"github.com/bokwoon95/pagemanager/pagemanager/view"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", envOr("PM_ADDR", ":8080"), "address to listen on")
	root := flag.String("root", envOr("PM_ROOT", "./site"), "site root holding themes, views and config.toml")
	dsn := flag.String("db", envOr("PM_DB", "./pagemanager.sqlite3"), "sqlite3 database file")
	dev := flag.Bool("dev", envBool("PM_DEV"), "disable template caching and show error details")
	flag.Parse()

	logger, err := pagemanager.NewLogger(*dev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	pm, err := newPageManager(*root, *dsn, *dev, logger)
	if err != nil {
		logger.Fatal("starting pagemanager", zap.Error(err))
	}
	defer func() { _ = pm.Close() }()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           pm,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		logger.Info("listening", zap.String("addr", *addr), zap.String("root", *root), zap.Bool("dev", *dev))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("shutting down", zap.Error(err))
	}
}

// newPageManager wires the site under root: config seeding, the blog plugin,
// the home page and the installer.
func newPageManager(root, dsn string, dev bool, logger *zap.Logger) (*pagemanager.PageManager, error) {
	pm, err := pagemanager.New("sqlite3", dsn,
		pagemanager.Root(root),
		pagemanager.Dev(dev),
		pagemanager.Logger(logger),
	)
	if err != nil {
		return pm, err
	}
	err = pm.Config.SeedFromTOML(os.DirFS(root), "config.toml")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return pm, err
	}
	err = pm.AddPlugins(blog.New("blog"))
	if err != nil {
		return pm, err
	}
	pm.Handle(pagemanager.Route{
		Pattern:    "/",
		Controller: "Home",
		Action:     "Index",
		ViewPath:   "home/views",
		Handler: func(v *view.View, r *http.Request) (string, error) {
			return v.Render("index", nil)
		},
	})
	pm.Handle(pagemanager.Route{
		Pattern:    "/install",
		Title:      "Install",
		Controller: "Install",
		Action:     "Index",
		ViewPath:   "install/views",
		Handler: func(v *view.View, r *http.Request) (string, error) {
			return v.Render("index", view.Vars{"product": r.URL.Query().Get("product")})
		},
	})
	return pm, nil
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envBool(key string) bool {
	dev, _ := strconv.ParseBool(os.Getenv(key))
	return dev
}
