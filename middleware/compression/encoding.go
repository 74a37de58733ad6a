// Copyright 2025 The Rivaas Authors
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
package compression

import (
	"strconv"
	"strings"
)

const (
	encodingBrotli = "br"
	encodingGzip   = "gzip"
)

// negotiate picks Brotli or gzip from an Accept-Encoding header. Higher
// q-values win; Brotli wins a tie. A "*" entry stands for any coding not
// listed explicitly. It returns "" when neither is acceptable.
func negotiate(header string, cfg *config) string {
	if header == "" {
		return ""
	}
	q := acceptQualities(header)

	quality := func(coding string) float64 {
		if v, ok := q[coding]; ok {
			return v
		}
		if v, ok := q["*"]; ok {
			return v
		}
		return 0
	}

	br, gz := 0.0, 0.0
	if cfg.enableBrotli {
		br = quality(encodingBrotli)
	}
	if cfg.enableGzip {
		gz = quality(encodingGzip)
	}

	switch {
	case br > 0 && br >= gz:
		return encodingBrotli
	case gz > 0:
		return encodingGzip
	default:
		return ""
	}
}

// acceptQualities parses "gzip;q=0.8, br" into {"gzip": 0.8, "br": 1}.
// Malformed q-values count as 1.
func acceptQualities(header string) map[string]float64 {
	out := make(map[string]float64)
	for part := range strings.SplitSeq(header, ",") {
		coding, params, _ := strings.Cut(part, ";")
		coding = strings.ToLower(strings.TrimSpace(coding))
		if coding == "" {
			continue
		}
		q := 1.0
		for p := range strings.SplitSeq(params, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(k), "q") {
				continue
			}
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f >= 0 && f <= 1 {
				q = f
			}
		}
		out[coding] = q
	}
	return out
}
