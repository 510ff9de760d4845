// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyLoadDefersBackendChoice(t *testing.T) {
	// bound at definition time, before the backend is chosen
	boundEarly := Counter("early_bound_count")
	lazyCounter := LazyLoadCounter("lazy_count")
	lazyCounterVec := LazyLoadCounterVec("lazy_count_vec", []string{"outcome"})
	lazyHist := LazyLoadHistogramVec("lazy_duration_ms", []string{"outcome"}, BucketHTTPReqs)
	lazyGauge := LazyLoadGauge("lazy_gauge")

	InitializePrometheusMetrics()

	if _, ok := boundEarly.(*noopMeters); !ok {
		t.Error("meter bound before initialization should remain noop")
	}
	if _, ok := lazyCounter().(*promCountMeter); !ok {
		t.Error("lazyCounter is not promCountMeter")
	}
	if _, ok := lazyCounterVec().(*promCountVecMeter); !ok {
		t.Error("lazyCounterVec is not promCountVecMeter")
	}
	if _, ok := lazyHist().(*promHistogramVecMeter); !ok {
		t.Error("lazyHist is not promHistogramVecMeter")
	}
	if _, ok := lazyGauge().(*promGaugeMeter); !ok {
		t.Error("lazyGauge is not promGaugeMeter")
	}

	lazyCounter().Add(1)
	lazyCounterVec().AddWithLabel(2, map[string]string{"outcome": "committed"})
	lazyHist().ObserveWithLabels(5, map[string]string{"outcome": "committed"})
	lazyGauge().Set(3)

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "lazy_count")
	assert.Contains(t, string(body), "lazy_duration_ms")
	assert.Contains(t, string(body), "lazy_gauge")
}
