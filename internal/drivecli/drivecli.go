/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package drivecli

import (
	"io"
	"os"

	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/common/metrics"
	"github.com/dashpay/platform-drive/common/metrics/disabled"
	promprovider "github.com/dashpay/platform-drive/common/metrics/prometheus"
	"github.com/dashpay/platform-drive/core/statestore"
	"github.com/dashpay/platform-drive/internal/driveconfig"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	cmdRoot = "drive"
	cmdDes  = "Validate Dash Platform data contracts and state transitions."
)

var logger = flogging.MustGetLogger("drivecli")

// Command line variables.
var (
	configPath string
	logSpec    string
	owner      string
	entropy    string
	dump       bool
)

var flags *pflag.FlagSet

func init() {
	resetFlags()
}

// Explicitly define a method to facilitate tests
func resetFlags() {
	flags = &pflag.FlagSet{}

	flags.StringVarP(&owner, "owner", "o", "",
		"Base58 identifier of the contract owner")
	flags.StringVarP(&entropy, "entropy", "e", "",
		"Hex encoded entropy the contract id is derived from")
	flags.BoolVarP(&dump, "dump", "d", false,
		"Dump the parsed document types")
}

func attachFlags(cmd *cobra.Command, names []string) {
	cmdFlags := cmd.Flags()
	for _, name := range names {
		if flag := flags.Lookup(name); flag != nil {
			cmdFlags.AddFlag(flag)
		} else {
			logger.Fatalf("Could not find flag '%s' to attach to command '%s'", name, cmd.Name())
		}
	}
}

// Cmd returns the root drive command.
func Cmd() *cobra.Command {
	mainCmd := &cobra.Command{
		Use:   cmdRoot,
		Short: cmdDes,
		Long:  cmdDes,
	}
	mainFlags := mainCmd.PersistentFlags()
	mainFlags.StringVarP(&configPath, "config", "c", "",
		"Path to drive.yaml. When empty the default config paths are searched")
	mainFlags.StringVar(&logSpec, "log-spec", "",
		"Logging specification overriding logging.spec")

	mainCmd.AddCommand(contractCmd())
	mainCmd.AddCommand(transitionCmd())
	mainCmd.AddCommand(versionCmd())
	return mainCmd
}

// node holds what the commands share: configuration, logging, the metrics
// provider and, when opened, the state store.
type node struct {
	config   *driveconfig.Config
	registry *prom.Registry
	provider metrics.Provider
	store    statestore.KVStore
	logFile  io.Closer
}

func newNode() (*node, error) {
	conf, err := driveconfig.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logSpec != "" {
		conf.Logging.Spec = logSpec
	}

	n := &node{config: conf}
	if err := n.initLogging(); err != nil {
		return nil, err
	}

	switch conf.Metrics.Provider {
	case driveconfig.MetricsProviderPrometheus:
		n.registry = prom.NewRegistry()
		n.provider = &promprovider.Provider{Registerer: n.registry}
	default:
		n.provider = &disabled.Provider{}
	}
	return n, nil
}

func (n *node) initLogging() error {
	conf := n.config.Logging
	var w io.Writer = os.Stderr
	if conf.File != "" {
		rotator, err := flogging.NewRotatingWriter(conf.File, conf.MaxRollKB, conf.MaxRolls)
		if err != nil {
			return err
		}
		n.logFile = rotator
		w = flogging.Tee(os.Stderr, rotator)
	}
	err := flogging.Global.Apply(flogging.Config{
		Format:  conf.Format,
		LogSpec: conf.Spec,
		Writer:  w,
	})
	return errors.WithMessage(err, "failed to initialize logging")
}

func (n *node) openStore() (statestore.KVStore, error) {
	if n.store != nil {
		return n.store, nil
	}
	conf := n.config.Storage
	store, err := statestore.Open(statestore.Config{
		Backend:   conf.Backend,
		Path:      conf.Path,
		CacheSize: int(conf.CacheSize),
	})
	if err != nil {
		return nil, err
	}
	n.store = store
	return store, nil
}

// close releases the store and writes the metrics textfile.
func (n *node) close() error {
	if n.store != nil {
		n.store.Close()
		n.store = nil
	}
	var err error
	if path := n.config.Metrics.TextfilePath; path != "" && n.registry != nil {
		if werr := prom.WriteToTextfile(path, n.registry); werr != nil {
			err = errors.Wrapf(werr, "failed writing metrics to %s", path)
		}
	}
	if n.logFile != nil {
		flogging.SetWriter(os.Stderr)
		n.logFile.Close()
		n.logFile = nil
	}
	return err
}
