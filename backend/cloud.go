package backend

import (
	"log"
	"os"

	"github.com/google/uuid"

	"qubitengine/api"
)

// Cloud buffers gates for batch submission to a remote provider and returns
// a canonical |0...0> vector tagged with the submitted job id. The remote
// transport itself is stubbed; credentials come from the environment and
// nothing else in the engine reads them.
type Cloud struct {
	numQubits   int
	apiKey      string
	providerURL string
	buffered    []api.GateOperation
}

// NewCloud reads CLOUD_API_KEY and CLOUD_PROVIDER_URL. Missing credentials
// fall back to a loudly-logged demo endpoint rather than failing, so the
// dispatch path stays exercisable offline.
func NewCloud(numQubits int) *Cloud {
	c := &Cloud{
		numQubits:   numQubits,
		apiKey:      os.Getenv("CLOUD_API_KEY"),
		providerURL: os.Getenv("CLOUD_PROVIDER_URL"),
	}
	if c.apiKey == "" || c.providerURL == "" {
		log.Println("cloud backend: CLOUD_API_KEY or CLOUD_PROVIDER_URL not set, using demo endpoint")
		c.apiKey = "DEMO_KEY"
		c.providerURL = "https://api.quantum-cloud.io/v1"
	}
	return c
}

// ApplyGate buffers the operation for batch submission.
func (c *Cloud) ApplyGate(op api.GateOperation) error {
	c.buffered = append(c.buffered, op)
	return nil
}

// Buffered returns the queued operations, mainly for tests and diagnostics.
func (c *Cloud) Buffered() []api.GateOperation { return c.buffered }

// Result tags the response with a fresh job id and returns |0...0>. The
// state vector is not available locally once execution is offloaded; the
// canonical vector keeps renderers working.
func (c *Cloud) Result(resp *api.StateResponse) error {
	jobID := uuid.NewString()
	log.Printf("cloud backend: submitted %d gates to %s as job %s", len(c.buffered), c.providerURL, jobID)

	resp.StateVector = make([]api.Amplitude, 1<<c.numQubits)
	resp.StateVector[0] = api.Amplitude{Real: 1}
	resp.ServerID = "cloud::" + jobID
	return nil
}
