/*
Copyright © 2020 ConsenSys

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/consensys/plonkish"
	"github.com/spf13/cobra"
)

var errNotFound = errors.New("no such file")

var rootCmd = &cobra.Command{
	Use:     "plonkish",
	Short:   "plonkish inspects serialized circuit shapes",
	Version: plonkish.Version.String(),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "prints the plonkish version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("plonkish", plonkish.Version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
