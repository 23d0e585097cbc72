package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Metrics posts run reports as json to a collector at url/<name>.
type Metrics struct {
	client *http.Client
	url    string
}

func New(url string) *Metrics {
	return &Metrics{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
}

type Run struct {
	Elapsed float64 `json:"elapsed_ms"`
	Length  int     `json:"length"`
	Run     string  `json:"run"`
	Sorter  string  `json:"sorter"`
	Workers int     `json:"workers"`
}

func (m *Metrics) Run(r Run) error {
	return m.Post("runs", r)
}

func (m *Metrics) Post(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.WithStack(err)
	}

	res, err := m.client.Post(fmt.Sprintf("%s/%s", m.url, name), "application/json", bytes.NewReader(data))
	if err != nil {
		return errors.WithStack(err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("metrics %s: %s", name, res.Status)
	}

	return nil
}
