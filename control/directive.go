// control/directive.go
// Author: momentics <momentics@gmail.com>
//
// Parses the thread_pool config directive, grounded on nginx's
// ngx_thread_pool_init_conf / ngx_thread_pool_init_worker
// (original_source/src/core/ngx_thread_pool.c): one line per pool,
// threads= and max_queue= parameters, and nginx's own defaults: 65536
// for an omitted max_queue, and 32 threads for the "default" pool only
// (any other pool must give threads= explicitly).

package control

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/momentics/evreactor/api"
)

const (
	DefaultThreads  = 32
	DefaultMaxQueue = 65536

	// DefaultPoolName is auto-provided with DefaultThreads/DefaultMaxQueue
	// whenever a config file never declares it explicitly.
	DefaultPoolName = "default"
)

// PoolSpec is one parsed thread_pool directive.
type PoolSpec struct {
	Name     string
	Threads  int
	MaxQueue int
}

// ParseDirective parses a single "thread_pool NAME [threads=N]
// [max_queue=M]" line. Leading/trailing whitespace is ignored; blank
// lines and lines starting with "#" return (nil, nil) so callers can
// feed it a whole config file line by line.
func ParseDirective(line string) (*PoolSpec, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) < 2 || fields[0] != "thread_pool" {
		return nil, api.ConfigErrorf("invalid thread_pool directive: %q", line)
	}

	spec := &PoolSpec{
		Name:     fields[1],
		MaxQueue: DefaultMaxQueue,
	}
	if spec.Name == DefaultPoolName {
		spec.Threads = DefaultThreads
	}

	threadsSet := false
	for _, param := range fields[2:] {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			return nil, api.ConfigErrorf("thread_pool %q: malformed parameter %q", spec.Name, param)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, api.ConfigErrorf("thread_pool %q: %s must be an integer, got %q", spec.Name, key, value)
		}
		switch key {
		case "threads":
			spec.Threads = n
			threadsSet = true
		case "max_queue":
			spec.MaxQueue = n
		default:
			return nil, api.ConfigErrorf("thread_pool %q: unknown parameter %q", spec.Name, key)
		}
	}

	if spec.Name != DefaultPoolName && !threadsSet {
		return nil, api.ConfigErrorf("thread_pool %q: must have \"threads\" parameter", spec.Name)
	}

	if spec.Threads <= 0 {
		return nil, api.ConfigErrorf("thread_pool %q: threads must be positive, got %d", spec.Name, spec.Threads)
	}
	if spec.MaxQueue <= 0 {
		return nil, api.ConfigErrorf("thread_pool %q: max_queue must be positive, got %d", spec.Name, spec.MaxQueue)
	}
	return spec, nil
}

// ParseDirectives parses a whole config file, one directive per line,
// and rejects duplicate pool names. If the file never declares
// DefaultPoolName explicitly, one is prepended with DefaultThreads and
// DefaultMaxQueue, matching nginx's own implicit "default" thread pool.
func ParseDirectives(lines []string) ([]*PoolSpec, error) {
	var specs []*PoolSpec
	seen := make(map[string]bool)
	for i, line := range lines {
		spec, err := ParseDirective(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if spec == nil {
			continue
		}
		if seen[spec.Name] {
			return nil, api.ConfigErrorf("line %d: duplicate thread_pool %q", i+1, spec.Name)
		}
		seen[spec.Name] = true
		specs = append(specs, spec)
	}
	if !seen[DefaultPoolName] {
		specs = append([]*PoolSpec{{
			Name:     DefaultPoolName,
			Threads:  DefaultThreads,
			MaxQueue: DefaultMaxQueue,
		}}, specs...)
	}
	return specs, nil
}
