package api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// QASM interchange: OPENQASM 2.0 text to and from the GateOperation
// vocabulary. The core engine never sees QASM; this layer converts at the
// boundary.

// Pre-compiled regexps for QASM parsing.
var (
	qasmQregRegex    = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
	qasmSingleRegex  = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	qasmRotRegex     = regexp.MustCompile(`^(\w+)\s*\(\s*(` + anglePattern + `)\s*\)\s+q\[(\d+)\];?$`)
	qasmTwoRegex     = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qasmThreeRegex   = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qasmMeasureRegex = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*\w+\[(\d+)\];?$`)
)

var qasmSingleGate = map[string]GateKind{
	"h": GateHadamard,
	"x": GatePauliX,
	"y": GatePauliY,
	"z": GatePauliZ,
	"s": GatePhaseS,
	"t": GatePhaseT,
}

var qasmRotationGate = map[string]GateKind{
	"rx": GateRotationX,
	"ry": GateRotationY,
	"rz": GateRotationZ,
}

// ParseQASM converts an OPENQASM 2.0 program into a circuit request for the
// simulator backend. Unknown statements fail rather than silently drop.
func ParseQASM(src string) (*CircuitRequest, error) {
	req := &CircuitRequest{ExecutionBackend: BackendSimulator}

	for lineNo, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") || strings.HasPrefix(line, "barrier") {
			continue
		}

		if m := qasmQregRegex.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[2])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("line %d: bad qreg size %q", lineNo+1, m[2])
			}
			req.NumQubits = int32(n)
			continue
		}

		if m := qasmMeasureRegex.FindStringSubmatch(line); m != nil {
			target := mustAtoi(m[1])
			creg := mustAtoi(m[2])
			req.Operations = append(req.Operations, GateOperation{
				Type:              GateMeasure,
				TargetQubit:       uint32(target),
				ClassicalRegister: uint32(creg),
			})
			continue
		}

		if m := qasmRotRegex.FindStringSubmatch(line); m != nil {
			kind, ok := qasmRotationGate[strings.ToLower(m[1])]
			if !ok {
				return nil, fmt.Errorf("line %d: unknown parameterized gate %q", lineNo+1, m[1])
			}
			angle, ok := ParseAngle(m[2])
			if !ok {
				return nil, fmt.Errorf("line %d: bad angle %q", lineNo+1, m[2])
			}
			req.Operations = append(req.Operations, GateOperation{
				Type:        kind,
				TargetQubit: uint32(mustAtoi(m[3])),
				Angle:       angle,
			})
			continue
		}

		if m := qasmThreeRegex.FindStringSubmatch(line); m != nil {
			if strings.ToLower(m[1]) != "ccx" {
				return nil, fmt.Errorf("line %d: unknown three-qubit gate %q", lineNo+1, m[1])
			}
			req.Operations = append(req.Operations, GateOperation{
				Type:               GateToffoli,
				ControlQubit:       uint32(mustAtoi(m[2])),
				SecondControlQubit: uint32(mustAtoi(m[3])),
				TargetQubit:        uint32(mustAtoi(m[4])),
			})
			continue
		}

		if m := qasmTwoRegex.FindStringSubmatch(line); m != nil {
			if strings.ToLower(m[1]) != "cx" {
				return nil, fmt.Errorf("line %d: unknown two-qubit gate %q", lineNo+1, m[1])
			}
			req.Operations = append(req.Operations, GateOperation{
				Type:         GateCNOT,
				ControlQubit: uint32(mustAtoi(m[2])),
				TargetQubit:  uint32(mustAtoi(m[3])),
			})
			continue
		}

		if m := qasmSingleRegex.FindStringSubmatch(line); m != nil {
			kind, ok := qasmSingleGate[strings.ToLower(m[1])]
			if !ok {
				return nil, fmt.Errorf("line %d: unknown gate %q", lineNo+1, m[1])
			}
			req.Operations = append(req.Operations, GateOperation{
				Type:        kind,
				TargetQubit: uint32(mustAtoi(m[2])),
			})
			continue
		}

		return nil, fmt.Errorf("line %d: cannot parse %q", lineNo+1, line)
	}

	if req.NumQubits == 0 {
		return nil, fmt.Errorf("no qreg declaration found")
	}
	for _, op := range req.Operations {
		if err := op.Validate(int(req.NumQubits)); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// ExportQASM renders a circuit request as an OPENQASM 2.0 program.
func ExportQASM(req *CircuitRequest) (string, error) {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&b, "qreg q[%d];\n", req.NumQubits)
	fmt.Fprintf(&b, "creg c[%d];\n\n", req.NumQubits)

	for _, op := range req.Operations {
		switch op.Type {
		case GateHadamard:
			fmt.Fprintf(&b, "h q[%d];\n", op.TargetQubit)
		case GatePauliX:
			fmt.Fprintf(&b, "x q[%d];\n", op.TargetQubit)
		case GatePauliY:
			fmt.Fprintf(&b, "y q[%d];\n", op.TargetQubit)
		case GatePauliZ:
			fmt.Fprintf(&b, "z q[%d];\n", op.TargetQubit)
		case GatePhaseS:
			fmt.Fprintf(&b, "s q[%d];\n", op.TargetQubit)
		case GatePhaseT:
			fmt.Fprintf(&b, "t q[%d];\n", op.TargetQubit)
		case GateCNOT:
			fmt.Fprintf(&b, "cx q[%d], q[%d];\n", op.ControlQubit, op.TargetQubit)
		case GateToffoli:
			fmt.Fprintf(&b, "ccx q[%d], q[%d], q[%d];\n", op.ControlQubit, op.SecondControlQubit, op.TargetQubit)
		case GateRotationX:
			fmt.Fprintf(&b, "rx(%s) q[%d];\n", FormatAngle(op.Angle), op.TargetQubit)
		case GateRotationY:
			fmt.Fprintf(&b, "ry(%s) q[%d];\n", FormatAngle(op.Angle), op.TargetQubit)
		case GateRotationZ:
			fmt.Fprintf(&b, "rz(%s) q[%d];\n", FormatAngle(op.Angle), op.TargetQubit)
		case GateMeasure:
			fmt.Fprintf(&b, "measure q[%d] -> c[%d];\n", op.TargetQubit, op.ClassicalRegister)
		default:
			return "", fmt.Errorf("gate %q has no QASM form", op.Type)
		}
	}
	return b.String(), nil
}

// mustAtoi converts digits already matched by \d+ in a regexp.
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
