package report

import (
	"bytes"
	"reflect"
	"testing"
)

func sampleReport() *Report {
	status := 0
	pid, ppid := 123, 45
	return &Report{
		Context: Context{SessionType: "wrapper", HostInfo: map[string]string{"os": "linux"}},
		Executions: []Execution{
			{
				Command: Command{
					Program:     "/usr/bin/cc",
					Arguments:   []string{"cc", "-c", "hello.c", "-o", "hello.o"},
					WorkingDir:  "/home/u/proj",
					Environment: map[string]string{"PATH": "/usr/bin"},
				},
				Run: Run{
					PID:  &pid,
					PPID: &ppid,
					Events: []Event{
						{Type: EventStart, At: "2024-01-01T00:00:00Z"},
						{Type: EventStop, At: "2024-01-01T00:00:01Z", Status: &status},
					},
				},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := sampleReport()

	var buf bytes.Buffer
	if err := Encode(&buf, want); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestDecodeMissingRequiredField(t *testing.T) {
	const raw = `{"context":{},"executions":[{"command":{"arguments":["cc"],"working_dir":"/x"},"run":{"events":[{"type":"start","at":"t"}]}}]}`
	if _, err := Decode(bytes.NewBufferString(raw)); err == nil {
		t.Fatal("expected ParseError for missing program")
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	const raw = `{"context":{"extra_future_field":"x"},"executions":[]}`
	rep, err := Decode(bytes.NewBufferString(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rep.Executions) != 0 {
		t.Fatalf("expected no executions, got %d", len(rep.Executions))
	}
}

func TestDecodeFirstEventMustBeStart(t *testing.T) {
	const raw = `{"context":{},"executions":[{"command":{"program":"cc","arguments":["cc"],"working_dir":"/x"},"run":{"events":[{"type":"stop","at":"t","status":0}]}}]}`
	if _, err := Decode(bytes.NewBufferString(raw)); err == nil {
		t.Fatal("expected ParseError for non-start first event")
	}
}
