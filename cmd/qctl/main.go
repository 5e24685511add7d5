// qctl is the engine client: it submits circuit files to a qubitd instance,
// drives VQE runs, converts circuits to QASM, and in streaming mode renders
// the evolving state vector in a live terminal view.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"qubitengine/api"
)

// circuitFile is the on-disk circuit DSL: gate names with optional controls
// and angles. Angles accept numbers or pi expressions ("pi/2", "-3*pi/4").
type circuitFile struct {
	Name   string `json:"name"`
	Qubits int32  `json:"qubits"`
	Ops    []struct {
		Gate         string     `json:"gate"`
		Target       uint32     `json:"target"`
		Control      uint32     `json:"control"`
		Control2     uint32     `json:"control2"`
		Angle        angleValue `json:"angle"`
		ClassicalReg uint32     `json:"classical_reg"`
	} `json:"ops"`
}

// angleValue decodes either a JSON number or a pi-expression string.
type angleValue float64

func (a *angleValue) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, ok := api.ParseAngle(s)
		if !ok {
			return fmt.Errorf("bad angle expression %q", s)
		}
		*a = angleValue(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = angleValue(f)
	return nil
}

var gateNames = map[string]api.GateKind{
	"H":       api.GateHadamard,
	"X":       api.GatePauliX,
	"Y":       api.GatePauliY,
	"Z":       api.GatePauliZ,
	"S":       api.GatePhaseS,
	"T":       api.GatePhaseT,
	"CX":      api.GateCNOT,
	"CNOT":    api.GateCNOT,
	"CCX":     api.GateToffoli,
	"TOFFOLI": api.GateToffoli,
	"RX":      api.GateRotationX,
	"RY":      api.GateRotationY,
	"RZ":      api.GateRotationZ,
	"MEASURE": api.GateMeasure,
}

func loadCircuit(path string) (*api.CircuitRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".qasm") {
		return api.ParseQASM(string(data))
	}

	var cf circuitFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	req := &api.CircuitRequest{NumQubits: cf.Qubits}
	for i, op := range cf.Ops {
		kind, ok := gateNames[strings.ToUpper(op.Gate)]
		if !ok {
			return nil, fmt.Errorf("op %d: unknown gate %q", i, op.Gate)
		}
		req.Operations = append(req.Operations, api.GateOperation{
			Type:               kind,
			TargetQubit:        op.Target,
			ControlQubit:       op.Control,
			SecondControlQubit: op.Control2,
			Angle:              float64(op.Angle),
			ClassicalRegister:  op.ClassicalReg,
		})
	}
	return req, nil
}

func main() {
	serverAddr := flag.String("server", "localhost:50051", "Engine address")
	fileArg := flag.String("file", "", "Circuit file (.json or .qasm)")
	backendArg := flag.String("backend", "SIMULATOR", "Execution backend: SIMULATOR, MOCK_HARDWARE, CLOUD")
	noiseArg := flag.Float64("noise", 0, "Depolarizing noise probability")
	streamMode := flag.Bool("stream", false, "Stream gates one by one with a live state view")
	exportMode := flag.Bool("export-qasm", false, "Print the circuit as OPENQASM 2.0 and exit")
	vqeArg := flag.String("vqe", "", "Run VQE for a molecule (H2, LiH) instead of a circuit")
	optimizerArg := flag.String("optimizer", "PARAMETER_SHIFT", "VQE optimizer: PARAMETER_SHIFT, SPSA")
	iterArg := flag.Int("iterations", 100, "VQE iteration limit")
	flag.Parse()

	if *vqeArg == "" && *fileArg == "" {
		fmt.Fprintln(os.Stderr, "usage: qctl -file <circuit.json|circuit.qasm> [-server host:port] [-stream]")
		fmt.Fprintln(os.Stderr, "       qctl -vqe H2 [-optimizer SPSA] [-server host:port]")
		os.Exit(1)
	}

	conn, err := grpc.NewClient(*serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)))
	if err != nil {
		log.Fatalf("connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	client := api.NewQuantumComputeClient(conn)

	if *vqeArg != "" {
		runVQE(client, *vqeArg, *optimizerArg, *iterArg)
		return
	}

	req, err := loadCircuit(*fileArg)
	if err != nil {
		log.Fatalf("load circuit: %v", err)
	}
	req.ExecutionBackend = api.ExecutionBackend(strings.ToUpper(*backendArg))
	req.NoiseProbability = *noiseArg

	if *exportMode {
		text, err := api.ExportQASM(req)
		if err != nil {
			log.Fatalf("export: %v", err)
		}
		fmt.Print(text)
		return
	}

	if *streamMode {
		if err := runStreamTUI(client, req); err != nil {
			log.Fatalf("stream: %v", err)
		}
		return
	}

	runBatch(client, req)
}

func runBatch(client *api.QuantumComputeClient, req *api.CircuitRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.RunCircuit(ctx, req)
	if err != nil {
		log.Fatalf("run circuit: %v", err)
	}

	fmt.Printf("server: %s\n", resp.ServerID)
	fmt.Println("state vector:")
	for i, amp := range resp.StateVector {
		if amp.Real*amp.Real+amp.Imag*amp.Imag > 1e-4 {
			fmt.Printf("  |%0*b>: %.4f %+.4fi\n", int(req.NumQubits), i, amp.Real, amp.Imag)
		}
	}
	for reg, bit := range resp.ClassicalResults {
		fmt.Printf("c[%d] = %d\n", reg, bit)
	}
}

func runVQE(client *api.QuantumComputeClient, molecule, optimizer string, iterations int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stream, err := client.RunVQE(ctx, &api.VQERequest{
		Molecule:      api.Molecule(strings.ToUpper(molecule)),
		OptimizerType: api.OptimizerKind(strings.ToUpper(optimizer)),
		MaxIterations: int32(iterations),
	})
	if err != nil {
		log.Fatalf("start VQE: %v", err)
	}

	for {
		frame, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Fatalf("VQE stream: %v", err)
		}
		fmt.Printf("iter %3d  energy %.6f  params %v", frame.Iteration, frame.Energy, frame.Parameters)
		if frame.Converged {
			fmt.Print("  [converged]")
		}
		fmt.Println()
	}
}
