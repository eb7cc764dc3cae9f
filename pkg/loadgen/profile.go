package loadgen

import (
	"fmt"
	"time"
)

// LoadProfile describes the shape of one load run.
type LoadProfile struct {
	Workers           int     `json:"workers"`
	RequestsPerWorker int     `json:"requests_per_worker"`
	PayloadSize       int     `json:"payload_size"`

	// Rate caps requests per second across all workers; 0 means unpaced.
	Rate float64 `json:"rate,omitempty"`
}

func (p LoadProfile) Validate() error {
	if p.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", p.Workers)
	}
	if p.RequestsPerWorker < 0 {
		return fmt.Errorf("requests per worker must be >= 0, got %d", p.RequestsPerWorker)
	}
	if p.PayloadSize < 1 {
		return fmt.Errorf("payload size must be >= 1, got %d", p.PayloadSize)
	}
	if p.Rate < 0 {
		return fmt.Errorf("rate must be >= 0, got %f", p.Rate)
	}
	return nil
}

// TotalRequests is the number of requests a complete run issues.
func (p LoadProfile) TotalRequests() int {
	return p.Workers * p.RequestsPerWorker
}

func (p LoadProfile) String() string {
	return fmt.Sprintf("workers=%d requests=%d payload=%d", p.Workers, p.RequestsPerWorker, p.PayloadSize)
}

// RunResult is the timing and outcome of a single load run.
type RunResult struct {
	Profile   LoadProfile   `json:"profile"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Elapsed   time.Duration `json:"elapsed"`
	Issued    int64         `json:"issued"`
	Succeeded int64         `json:"succeeded"`
	Failed    int64         `json:"failed"`
}
