// Copyright (C) 2026 The RLLVM Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the TOML configuration file described in spec.md
// §6. It is an external collaborator in the sense that the core packages
// never read it themselves — every entry point loads a Config value once
// and threads it down explicitly, per spec.md §9's "Global config" note.
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/core/fault"
)

// EnvOverride is the environment variable that overrides the default
// config file location.
const EnvOverride = "RLLVM_CONFIG"

// Config mirrors the recognized TOML keys of spec.md §6.
type Config struct {
	LLVMConfigFilepath  string `toml:"llvm_config_filepath"`
	ClangFilepath       string `toml:"clang_filepath"`
	ClangxxFilepath     string `toml:"clangxx_filepath"`
	LLVMArFilepath      string `toml:"llvm_ar_filepath"`
	LLVMLinkFilepath    string `toml:"llvm_link_filepath"`
	LLVMObjcopyFilepath string `toml:"llvm_objcopy_filepath"`

	BitcodeStorePath string `toml:"bitcode_store_path"`

	LLVMLinkFlags          []string `toml:"llvm_link_flags"`
	LTOLDFlags             []string `toml:"lto_ldflags"`
	BitcodeGenerationFlags []string `toml:"bitcode_generation_flags"`

	IsConfigureOnly bool `toml:"is_configure_only"`
	LogLevel        int  `toml:"log_level"`
}

// Default returns a Config with a bitcode store under the OS temp
// directory, used when no config file is found and LLVM tools are
// expected to be discoverable on PATH.
func Default() Config {
	return Config{
		BitcodeStorePath: filepath.Join(os.TempDir(), "rllvm-bitcode-store"),
	}
}

// Locate resolves the config file path: RLLVM_CONFIG env var, else
// ".rllvm.toml" in the working directory, else "$HOME/.rllvm/config.toml".
// It does not check that the file exists.
func Locate() string {
	if p := os.Getenv(EnvOverride); p != "" {
		return p
	}
	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, ".rllvm.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".rllvm", "config.toml")
}

// Load reads and parses the TOML file at path, overlaying its keys onto
// Default(). A missing file is not an error: the defaults (plus whatever
// the tool resolver can discover independently) are used instead.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(fault.ConfigError, "reading %s: %v", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(fault.ConfigError, "parsing %s: %v", path, err)
	}
	return cfg, nil
}

// LoadDefault locates and loads the config file per Locate's search order.
func LoadDefault() (Config, error) {
	return Load(Locate())
}
