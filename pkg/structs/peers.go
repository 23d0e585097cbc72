package structs

import (
	"errors"
	"fmt"
	"io/ioutil"
	"strings"

	uuid "github.com/satori/go.uuid"
	yaml "gopkg.in/yaml.v2"
)

var ErrNoPeers = errors.New("no peers")

// Peers lists the address of every worker, indexed by rank.
type Peers struct {
	Workers []string `yaml:"workers"`
}

func LoadPeers(path string) (*Peers, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p, err := ParsePeers(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

func ParsePeers(data []byte) (*Peers, error) {
	var p Peers

	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	if len(p.Workers) == 0 {
		return nil, ErrNoPeers
	}

	seen := map[string]int{}

	for i, w := range p.Workers {
		w = strings.TrimSpace(w)

		if w == "" {
			return nil, fmt.Errorf("worker %d has no address", i)
		}

		if j, ok := seen[w]; ok {
			return nil, fmt.Errorf("workers %d and %d share address %s", j, i, w)
		}

		seen[w] = i
		p.Workers[i] = w
	}

	return &p, nil
}

// Run derives a run id from the peer list so that workers started from the
// same file agree on it without coordination.
func (p *Peers) Run() string {
	return uuid.NewV5(uuid.NamespaceURL, "treesort:"+strings.Join(p.Workers, ",")).String()
}
