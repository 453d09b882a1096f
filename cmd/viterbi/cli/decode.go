// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	viterbi "github.com/ajroetker/viterbi-batch"
	"github.com/ajroetker/viterbi-batch/batchconfig"
	"github.com/ajroetker/viterbi-batch/tensorio"
)

var (
	inputFiles     []string
	outputFiles    []string
	transitionFile string
	initialFile    string
	logProbs       bool
	gpuIndex       int
	configFile     string
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode one or more observation tensors into index tensors",
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []tensorio.FileItem

		if configFile != "" {
			spec, err := batchconfig.Load(configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			outputFiles = spec.OutputFiles()
			transitionFile = spec.Transition
			initialFile = spec.Initial
			logProbs = spec.LogProbs
			if gpu, idx := spec.Device(); gpu {
				gpuIndex = idx
			} else {
				gpuIndex = -1
			}
			for _, it := range spec.Items {
				items = append(items, tensorio.FileItem{
					Observation: it.Input,
					Transition:  it.Transition,
					Initial:     it.Initial,
				})
			}
		} else {
			for _, in := range inputFiles {
				items = append(items, tensorio.FileItem{Observation: in})
			}
		}

		if len(items) == 0 {
			return fmt.Errorf("at least one --input_files entry is required")
		}
		if len(outputFiles) != len(items) {
			return fmt.Errorf("--output_files must list exactly one path per --input_files entry (%d vs %d)", len(outputFiles), len(items))
		}

		device := viterbi.OnCPU()
		if gpuIndex >= 0 {
			device = viterbi.OnGPU(gpuIndex)
		}

		logrus.WithFields(logrus.Fields{
			"inputs": len(items),
			"device": device.String(),
		}).Info("viterbi: decoding")

		ctx := context.Background()
		results, err := tensorio.DecodeBatch(ctx, items, transitionFile, initialFile, logProbs, device)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}

		for i, indices := range results {
			err := tensorio.SaveIndices(outputFiles[i], denseIntOf(indices))
			if err != nil {
				return fmt.Errorf("save %q: %w", outputFiles[i], err)
			}
		}
		logrus.Info("viterbi: decode complete")
		return nil
	},
}

func init() {
	decodeCmd.Flags().StringSliceVar(&inputFiles, "input_files", nil, "Observation tensor files to decode")
	decodeCmd.Flags().StringSliceVar(&outputFiles, "output_files", nil, "Output index tensor files, one per input")
	decodeCmd.Flags().StringVar(&transitionFile, "transition_file", "", "Optional transition matrix tensor file")
	decodeCmd.Flags().StringVar(&initialFile, "initial_file", "", "Optional initial distribution tensor file")
	decodeCmd.Flags().BoolVar(&logProbs, "log_probs", false, "Treat inputs as already in the natural-log domain")
	decodeCmd.Flags().IntVar(&gpuIndex, "gpu", -1, "GPU device index to decode on (default: CPU)")
	decodeCmd.Flags().StringVar(&configFile, "config", "", "Batch spec YAML file; overrides the other flags when set")
}
