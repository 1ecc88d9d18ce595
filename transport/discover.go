package transport

import (
	"fmt"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// listPorts is replaced in tests
var listPorts = enumerator.GetDetailedPortsList

// Discover lists serial ports. Only USB adapters are returned unless all is set.
// An empty result is reported as ErrNoEndpoints
func Discover(all bool) ([]Endpoint, error) {
	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}

	eps := make([]Endpoint, 0, len(ports))
	for _, p := range ports {
		if p == nil || (!all && !p.IsUSB) {
			continue
		}
		eps = append(eps, Endpoint{
			Name:        p.Name,
			Description: describePort(p),
			Kind:        KindSerial,
		})
	}
	if len(eps) == 0 {
		return nil, ErrNoEndpoints
	}

	sort.Slice(eps, func(i, j int) bool { return eps[i].Name < eps[j].Name })
	return eps, nil
}

func describePort(p *enumerator.PortDetails) string {
	var parts []string
	if p.Product != "" {
		parts = append(parts, p.Product)
	}
	if p.IsUSB && p.VID != "" {
		parts = append(parts, fmt.Sprintf("[%s:%s]", p.VID, p.PID))
	}
	if p.SerialNumber != "" {
		parts = append(parts, "sn "+p.SerialNumber)
	}
	return strings.Join(parts, " ")
}

// Pick returns the endpoint at a 1-based index as shown in port listings
func Pick(eps []Endpoint, index int) (Endpoint, error) {
	if len(eps) == 0 {
		return Endpoint{}, ErrNoEndpoints
	}
	if index < 1 || index > len(eps) {
		return Endpoint{}, &OpenError{
			Endpoint: fmt.Sprintf("#%d", index),
			Err:      fmt.Errorf("port index out of range 1-%d", len(eps)),
		}
	}
	return eps[index-1], nil
}
