package unleash

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/Unleash/unleash-client-go/v3/api"
)

// See: https://github.com/Unleash/unleash-client-go/issues/36

// FakeUnleashServer implements just enough of the unleash server protocol to
// run without a real endpoint: flags toggle with Enable/Disable and a flag
// can carry a single json variant payload (the memory watchdog reads its
// limits from one).
type FakeUnleashServer struct {
	sync.RWMutex
	srv      *httptest.Server
	features map[string]bool
	variants map[string]string
}

func (f *FakeUnleashServer) Url() string {
	return f.srv.URL
}

func (f *FakeUnleashServer) Enable(feature string) {
	f.setEnabled(feature, true)
}

func (f *FakeUnleashServer) Disable(feature string) {
	f.setEnabled(feature, false)
}

func (f *FakeUnleashServer) setEnabled(feature string, enabled bool) {
	f.Lock()
	f.features[feature] = enabled
	f.Unlock()
}

func (f *FakeUnleashServer) IsEnabled(feature string) bool {
	f.RLock()
	enabled := f.features[feature]
	f.RUnlock()
	return enabled
}

// SetVariant enables the feature and attaches a json payload served as its
// only variant.
func (f *FakeUnleashServer) SetVariant(feature string, payload string) {
	f.Lock()
	f.features[feature] = true
	f.variants[feature] = payload
	f.Unlock()
}

func (f *FakeUnleashServer) setAll(enabled bool) {
	f.RLock()
	names := make([]string, 0, len(f.features))
	for k := range f.features {
		names = append(names, k)
	}
	f.RUnlock()
	for _, k := range names {
		f.setEnabled(k, enabled)
	}
}

func (f *FakeUnleashServer) EnableAll() {
	f.setAll(true)
}

func (f *FakeUnleashServer) DisableAll() {
	f.setAll(false)
}

func (f *FakeUnleashServer) handler(w http.ResponseWriter, req *http.Request) {
	switch req.Method + " " + req.URL.Path {
	case "GET /client/features":
		f.RLock()
		features := []api.Feature{}
		for k, v := range f.features {
			feature := api.Feature{
				Name:    k,
				Enabled: v,
				Strategies: []api.Strategy{
					{
						Id:   0,
						Name: "default",
					},
				},
				CreatedAt: time.Time{},
			}
			if payload, ok := f.variants[k]; ok {
				feature.Variants = []api.VariantInternal{
					{
						Variant: api.Variant{
							Name:    "default",
							Enabled: true,
							Payload: api.Payload{Type: "json", Value: payload},
						},
						Weight: 1,
					},
				}
			}
			features = append(features, feature)
		}
		f.RUnlock()

		res := api.FeatureResponse{
			Response: api.Response{Version: 2},
			Features: features,
		}
		dec := json.NewEncoder(w)
		if err := dec.Encode(res); err != nil {
			println(err.Error())
		}
	case "POST /client/register":
		fallthrough
	case "POST /client/metrics":
		w.WriteHeader(200)
	default:
		w.Write([]byte("Unknown route"))
		w.WriteHeader(500)
	}
}

func NewFakeUnleash() *FakeUnleashServer {
	faker := &FakeUnleashServer{
		features: map[string]bool{},
		variants: map[string]string{},
	}
	faker.srv = httptest.NewServer(http.HandlerFunc(faker.handler))
	return faker
}
