// Copyright 2019 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2019 Charles University, Faculty of Arts,
//                Institute of the Czech National Corpus
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fs

import (
	"fmt"
	"os"
)

// IsFile tests whether a provided path represents
// a file. If not or in case of an IO error,
// false is returned.
func IsFile(path string) bool {
	finfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return finfo.Mode().IsRegular()
}

// IsDir tests whether a provided path represents
// a directory. If not or in case of an IO error,
// false is returned.
func IsDir(path string) bool {
	finfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return finfo.Mode().IsDir()
}

// FileSize returns the size of a file in bytes or
// -1 in case of an error.
func FileSize(path string) int64 {
	finfo, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return finfo.Size()
}

// ListShards enumerates a dictionary shard chain: path itself,
// then path.1, path.2, ... until the first missing file.
func ListShards(path string) []string {
	if !IsFile(path) {
		return nil
	}
	ans := []string{path}
	for i := 1; ; i++ {
		shard := fmt.Sprintf("%s.%d", path, i)
		if !IsFile(shard) {
			break
		}
		ans = append(ans, shard)
	}
	return ans
}
