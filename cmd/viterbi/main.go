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

// Command viterbi is the CLI front-end for the batch Viterbi decoder: it
// loads observation (and optional transition/initial) tensors from disk,
// decodes them through the viterbi package's Decode, and writes index
// tensors back out.
package main

import "github.com/ajroetker/viterbi-batch/cmd/viterbi/cli"

func main() {
	cli.Execute()
}
