// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Flags is the command-line layer of the configuration. It is bound to a
// cobra/pflag flag set and read after the command line has been parsed.
type Flags struct {
	cfg           StructuredConfig
	serverAddress NetAddress
	workerAddress NetAddress
}

// BindFlags registers every configuration flag on fs.
//
// Flags:
//
//	-c, --config            JSON or TOML config file path
//	    --dotenv            .env file path
//	-d, --dsn               SQLite database path
//	-b, --backend-url       backend base URL
//	    --api-key           backend api key
//	    --token             backend bearer token
//	    --request-timeout   backend request timeout (e.g. 15s)
//	    --probe-url         reachability probe URL
//	    --probe-interval    reachability probe period
//	    --measure-link      estimate link quality from probe timings
//	    --settle-delay      wait after reconnect before draining
//	-a, --address           client API address host:port
//	    --worker-address    worker proxy address host:port
//	    --app-origin        application origin served through the worker
//	    --manifest          shell manifest path
//	    --auto-activate     activate new shell versions immediately
//	    --log-level         log level
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}

	fs.StringVarP(&f.cfg.FilePath, "config", "c", "", "JSON or TOML config file path")
	fs.StringVar(&f.cfg.DotEnvPath, "dotenv", "", ".env file path")
	fs.StringVarP(&f.cfg.Storage.DB.DSN, "dsn", "d", "", "SQLite database path")
	fs.StringVarP(&f.cfg.Backend.BaseURL, "backend-url", "b", "", "Backend base URL")
	fs.StringVar(&f.cfg.Backend.APIKey, "api-key", "", "Backend api key")
	fs.StringVar(&f.cfg.Backend.Token, "token", "", "Backend bearer token")
	fs.DurationVar(&f.cfg.Backend.RequestTimeout, "request-timeout", 0, "Backend request timeout (e.g., 15s)")
	fs.StringVar(&f.cfg.Network.ProbeURL, "probe-url", "", "Reachability probe URL")
	fs.DurationVar(&f.cfg.Network.ProbeInterval, "probe-interval", 0, "Reachability probe period")
	fs.BoolVar(&f.cfg.Network.MeasureLinkQuality, "measure-link", false, "Estimate link quality from probe timings")
	fs.DurationVar(&f.cfg.Sync.SettleDelay, "settle-delay", 0, "Wait after reconnect before draining")
	fs.VarP(&f.serverAddress, "address", "a", "Client API address host:port")
	fs.Var(&f.workerAddress, "worker-address", "Worker proxy address host:port")
	fs.StringVar(&f.cfg.Router.AppOrigin, "app-origin", "", "Application origin served through the worker")
	fs.StringVar(&f.cfg.Worker.ManifestPath, "manifest", "", "Shell manifest path")
	fs.BoolVar(&f.cfg.Worker.AutoActivate, "auto-activate", false, "Activate new shell versions immediately")
	fs.StringVar(&f.cfg.App.LogLevel, "log-level", "", "Log level")

	return f
}

// Config returns the values collected from the parsed command line.
func (f *Flags) Config() *StructuredConfig {
	if f == nil {
		return nil
	}

	cfg := f.cfg
	cfg.Server.HTTPAddress = f.serverAddress.String()
	cfg.Worker.Address = f.workerAddress.String()

	return &cfg
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number is an integer between 1 and 65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
