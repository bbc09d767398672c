// Command bucketsd is the storage-node entrypoint: it loads configuration,
// wires up the placement/erasure/registry/pipeline stack, and serves
// Prometheus metrics, per spec.md §6.
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"crypto/rand"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NVIDIA/buckets/asyncio"
	"github.com/NVIDIA/buckets/cluster"
	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/cmn/log"
	"github.com/NVIDIA/buckets/ec"
	"github.com/NVIDIA/buckets/fs"
	"github.com/NVIDIA/buckets/pipeline"
	"github.com/NVIDIA/buckets/registry"
	"github.com/NVIDIA/buckets/stats"
)

var (
	configPath = flag.String("config", "", "path to JSON config file (optional)")
	listenAddr = flag.String("listen", ":9400", "address to serve /metrics on")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	cfg, err := cmn.LoadConfig(*configPath)
	if err != nil {
		log.Errorf("config: %v", err)
		return cmn.ExitBadConfig
	}
	if len(cfg.DiskRoots) == 0 {
		cfg.DiskRoots = []string{"./data"}
	}
	if err := cfg.Validate(); err != nil {
		log.Errorf("config: %v", err)
		return cmn.ExitBadConfig
	}
	log.Init(cfg.LogLevel)
	defer log.Sync()

	deploymentID, err := loadOrCreateDeploymentID(cfg.DiskRoots[0])
	if err != nil {
		log.Errorf("deployment id: %v", err)
		return cmn.ExitInitError
	}

	topo, err := cluster.BuildTopology(cfg.DiskRoots, len(cfg.DiskRoots))
	if err != nil {
		log.Errorf("topology: %v", err)
		return cmn.ExitInitError
	}

	regMp, err := fs.NewMountpaths(cfg.DiskRoots)
	if err != nil {
		log.Errorf("mountpaths: %v", err)
		return cmn.ExitInitError
	}
	k, m := cmn.ChooseErasureConfig(len(cfg.DiskRoots))
	ecCtx, err := ec.NewContext(k, m)
	if err != nil {
		log.Errorf("erasure context: %v", err)
		return cmn.ExitInitError
	}
	reg := registry.NewService(registry.NewStore(regMp, ecCtx, cfg), cfg)

	pool := asyncio.NewPoolFromConfig(cfg)
	defer pool.Close()

	svc := pipeline.NewService(cfg, topo, deploymentID, reg, pool)
	_ = svc // exercised by the (out-of-scope) S3 HTTP layer; kept alive here for readiness checks

	sampler := stats.NewDiskSampler(15 * time.Second)
	go sampler.Run()
	defer sampler.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: *listenAddr, Handler: mux}

	go func() {
		log.Infof("serving metrics on %s", *listenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Infof("shutting down")
	_ = srv.Close()
	return cmn.ExitOK
}

// loadOrCreateDeploymentID persists a 16-byte deployment id under the first
// disk root, so SipHash-keyed placement stays stable across restarts,
// per spec.md §3 DeploymentId.
func loadOrCreateDeploymentID(firstRoot string) (cmn.DeploymentID, error) {
	var id cmn.DeploymentID
	path := firstRoot + "/.deployment_id"
	if b, err := os.ReadFile(path); err == nil && len(b) == len(id) {
		copy(id[:], b)
		return id, nil
	}
	if _, err := rand.Read(id[:]); err != nil {
		return id, cmn.WrapError(cmn.KindCryptoError, err, "generate deployment id")
	}
	if err := os.MkdirAll(firstRoot, 0755); err != nil {
		return id, cmn.WrapError(cmn.KindIOError, err, "create disk root %s", firstRoot)
	}
	if err := os.WriteFile(path, id[:], 0644); err != nil {
		return id, cmn.WrapError(cmn.KindIOError, err, "persist deployment id")
	}
	return id, nil
}
