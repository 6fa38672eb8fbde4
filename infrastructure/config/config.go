// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/go-socks/socks"
	"github.com/jessevdk/go-flags"
	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
	"github.com/moecoin/moecoind/infrastructure/logger"
	"github.com/moecoin/moecoind/version"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

const (
	defaultConfigFilename = "moecoind.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "moecoind.log"
	defaultErrLogFilename = "moecoind_err.log"
	defaultHeartbeat      = time.Second
	defaultMempoolDelay   = time.Second
	defaultDBCacheSizeMiB = 8
)

var (
	// DefaultAppDir is the default home directory for moecoind.
	DefaultAppDir = defaultAppDir()

	defaultP2PListener = net.JoinHostPort("0.0.0.0", chainconfig.MainnetParams.DefaultPort)
	defaultRPCListener = net.JoinHostPort("127.0.0.1", chainconfig.MainnetParams.RPCPort)
)

// Flags defines the configuration options for moecoind.
//
// See loadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion  bool          `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile   string        `short:"C" long:"configfile" description:"Path to configuration file"`
	AppDir       string        `short:"b" long:"appdir" description:"Directory to store data"`
	LogDir       string        `long:"logdir" description:"Directory to log output."`
	DebugLevel   string        `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Listeners    []string      `long:"listen" description:"Add an interface/port to listen for P2P connections (default all interfaces port: 16111)"`
	NoListen     bool          `long:"nolisten" description:"Disable listening for incoming P2P connections"`
	RPCListen    string        `long:"rpclisten" description:"Interface/port to serve the HTTP API on"`
	AddPeers     []string      `short:"a" long:"addpeer" description:"Add a peer to connect with at startup and reconnect to whenever the connection drops"`
	Proxy        string        `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser    string        `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass    string        `long:"proxypass" default-mask:"-" description:"Password for proxy server"`
	Generate     bool          `long:"generate" description:"Generate (mine) moecoin using the CPU"`
	MiningAddr   string        `long:"miningaddr" description:"Address to pay mining rewards to (default: the wallet address)"`
	Mnemonic     string        `long:"mnemonic" default-mask:"-" description:"Restore the wallet key from a bip39 mnemonic when no key is stored yet"`
	Heartbeat    time.Duration `long:"heartbeat" description:"Interval between heartbeats sent to every peer"`
	MempoolDelay time.Duration `long:"mempooldelay" description:"Delay before requesting the mempool of a newly connected peer"`
	ShowMnemonic bool          `long:"showmnemonic" description:"Print the wallet mnemonic and exit"`
}

// Config defines the configuration options for moecoind.
//
// See loadConfig for details on the configuration load process.
type Config struct {
	*Flags
	Dial           func(string, string, time.Duration) (net.Conn, error)
	DBCacheSizeMiB int
}

// DataDir returns the directory holding the wallet database
func (cfg *Config) DataDir() string {
	return filepath.Join(cfg.AppDir, defaultDataDirname)
}

func defaultAppDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".moecoind"
	}
	return filepath.Join(homeDir, ".moecoind")
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:   filepath.Join(DefaultAppDir, defaultConfigFilename),
		AppDir:       DefaultAppDir,
		DebugLevel:   defaultLogLevel,
		RPCListen:    defaultRPCListener,
		Heartbeat:    defaultHeartbeat,
		MempoolDelay: defaultMempoolDelay,
	}
}

// DefaultConfig returns the default moecoind configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Flags:          defaultFlags(),
		Dial:           net.DialTimeout,
		DBCacheSizeMiB: defaultDBCacheSizeMiB,
	}
	cfg.Listeners = []string{defaultP2PListener}
	cfg.LogDir = filepath.Join(cfg.AppDir, defaultLogDirname)
	return cfg
}

// LoadConfig initializes and parses the config using a config file and command
// line options, then initializes log rotation and the log levels.
func LoadConfig() (*Config, error) {
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); !ok || flagsErr.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}

	if cfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	err = os.MkdirAll(cfg.AppDir, 0700)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create the app directory %s", cfg.AppDir)
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation. After log rotation has been initialized, the
	// logger variables may be used.
	logger.InitLog(filepath.Join(cfg.LogDir, defaultLogFilename), filepath.Join(cfg.LogDir, defaultErrLogFilename))

	err = logger.ParseAndSetDebugLevels(cfg.DebugLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	log.Debugf("Loaded config: app directory %s, P2P listeners %v, HTTP API %s",
		cfg.AppDir, cfg.Listeners, cfg.RPCListen)
	return cfg, nil
}

// loadConfig parses the config using a config file and command line
// options, and validates the result.
//
// The configuration proceeds as follows:
// 	1) Start with a default config with sane settings
// 	2) Pre-parse the command line to check for an alternative config file
// 	3) Load configuration file overwriting defaults with any specified options
// 	4) Parse CLI options and overwrite/add any specified options
func loadConfig(args []string) (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := *cfgFlags
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			return nil, err
		}
	}

	// The config file lives in the app directory unless specified otherwise
	configFile := preCfg.ConfigFile
	if configFile == cfgFlags.ConfigFile && preCfg.AppDir != cfgFlags.AppDir {
		configFile = filepath.Join(cleanAndExpandPath(preCfg.AppDir), defaultConfigFilename)
	}

	cfg := &Config{
		Flags:          cfgFlags,
		Dial:           net.DialTimeout,
		DBCacheSizeMiB: defaultDBCacheSizeMiB,
	}
	if preCfg.ShowVersion {
		cfg.ShowVersion = true
		return cfg, nil
	}

	parser := flags.NewParser(cfgFlags, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, errors.Wrapf(err, "error parsing config file %s", configFile)
		}
		log.Debugf("No config file loaded: %s", err)
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	err = cfg.resolve()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve fills in values derived from other options and validates the
// result
func (cfg *Config) resolve() error {
	cfg.AppDir = cleanAndExpandPath(cfg.AppDir)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.AppDir, defaultLogDirname)
	}
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	if len(cfg.Listeners) == 0 {
		cfg.Listeners = []string{defaultP2PListener}
	}
	for _, listener := range cfg.Listeners {
		err := validateHostPort("listen", listener)
		if err != nil {
			return err
		}
	}
	err := validateHostPort("rpclisten", cfg.RPCListen)
	if err != nil {
		return err
	}
	for _, peer := range cfg.AddPeers {
		err := validateHostPort("addpeer", peer)
		if err != nil {
			return err
		}
	}

	if cfg.Heartbeat <= 0 {
		return errors.Errorf("the heartbeat interval must be positive -- parsed [%s]", cfg.Heartbeat)
	}
	if cfg.MempoolDelay < 0 {
		return errors.Errorf("the mempool request delay can't be negative -- parsed [%s]", cfg.MempoolDelay)
	}

	if cfg.MiningAddr != "" && !signing.IsValidAddress(cfg.MiningAddr) {
		return errors.Errorf("--miningaddr '%s' is not a valid address", cfg.MiningAddr)
	}

	if cfg.Mnemonic != "" && !bip39.IsMnemonicValid(cfg.Mnemonic) {
		return errors.New("the specified mnemonic is not a valid bip39 mnemonic")
	}

	if cfg.Proxy == "" {
		if cfg.ProxyUser != "" || cfg.ProxyPass != "" {
			return errors.New("--proxyuser and --proxypass require --proxy")
		}
		cfg.Dial = net.DialTimeout
		return nil
	}
	err = validateHostPort("proxy", cfg.Proxy)
	if err != nil {
		return err
	}
	if (cfg.ProxyUser == "") != (cfg.ProxyPass == "") {
		return errors.New("--proxyuser and --proxypass must be specified together")
	}
	proxy := &socks.Proxy{
		Addr:     cfg.Proxy,
		Username: cfg.ProxyUser,
		Password: cfg.ProxyPass,
	}
	cfg.Dial = proxy.DialTimeout
	return nil
}

func validateHostPort(option string, address string) error {
	_, _, err := net.SplitHostPort(address)
	if err != nil {
		return errors.Errorf("--%s address '%s' is invalid: %s", option, address, err)
	}
	return nil
}
