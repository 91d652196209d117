package main

import (
	"flag"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/jordansissel/fastest-sites/config"
	"github.com/jordansissel/fastest-sites/output"
	"github.com/jordansissel/fastest-sites/probing"
	"github.com/jordansissel/fastest-sites/ranking"
	"github.com/jordansissel/fastest-sites/sitelist"
)

func main() {
	configPath := flag.String("config", "fastest_sites.toml", "Path to configuration file")
	flag.Parse()

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	cfg, err := config.Load(*configPath, explicit)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	config.SetupLogger(cfg)

	// Remaining arguments select specific groups; none means all of them.
	filters := flag.Args()

	sitesMk := cfg.SitesMk
	if sitesMk == "" {
		portsDir, err := sitelist.ResolveVariable("PORTSDIR", cfg.PortsDir, sitelist.Run)
		if err != nil || portsDir == "" {
			log.Debugf("could not resolve PORTSDIR, using %s: %v", cfg.PortsDir, err)
			portsDir = cfg.PortsDir
		}
		sitesMk = filepath.Join(portsDir, "Mk", "bsd.sites.mk")
	}
	log.Infof("site list: %s", sitesMk)

	list, err := sitelist.Load(sitesMk, sitelist.Run)
	if err != nil {
		log.Fatalf("failed to load site list: %v", err)
	}

	prober := probing.NewProber(cfg.Probing.ConnectTimeout())
	scheduler := probing.NewScheduler(probing.SchedulerConfig{
		PollTimeout:   cfg.Probing.PollTimeout(),
		IdleWait:      cfg.Probing.IdleWait(),
		MaxPollRounds: cfg.Probing.MaxPollRounds,
		MaxWorkers:    cfg.Probing.MaxWorkers,
	}, prober)
	ranker := ranking.NewRanker(scheduler)

	for _, group := range list.Groups {
		if !selected(filters, group.Name) {
			continue
		}
		ranked, err := ranker.Rank(group.Name, group.URLs)
		if err != nil {
			log.Errorf("skipping %s: %v", group.Name, err)
			continue
		}
		if err := output.Render(os.Stdout, group.Name, ranked); err != nil {
			log.Fatalf("failed to write ranking for %s: %v", group.Name, err)
		}
	}

	// Groups with unexpanded variables cannot be probed. Only complain
	// when one was explicitly requested.
	for name := range list.Bad {
		if len(filters) > 0 && contains(filters, name) {
			log.Warnf("unable to sort %s - skipping", name)
		}
	}
}

func selected(filters []string, name string) bool {
	if len(filters) == 0 {
		return true
	}
	return contains(filters, name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
