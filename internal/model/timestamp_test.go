package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshalRFC3339(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"2025-03-14T09:26:53Z"`), &ts); err != nil {
		t.Fatalf("unmarshaling RFC 3339 timestamp: %v", err)
	}

	want := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("got %v, want %v", ts.Time, want)
	}
}

func TestTimestampUnmarshalNaive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "with microseconds",
			input: `"2025-03-14T09:26:53.123456"`,
			want:  time.Date(2025, 3, 14, 9, 26, 53, 123456000, time.UTC),
		},
		{
			name:  "without fraction",
			input: `"2025-03-14T09:26:53"`,
			want:  time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("unmarshaling %s: %v", tt.input, err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
			if ts.Location() != time.UTC {
				t.Errorf("naive timestamp parsed in %v, want UTC", ts.Location())
			}
		})
	}
}

func TestTimestampUnmarshalNull(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Fatalf("unmarshaling null: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("null should produce the zero time, got %v", ts.Time)
	}
}

func TestTimestampUnmarshalInvalid(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected an error for an unparseable timestamp")
	}
}

func TestTimestampMarshal(t *testing.T) {
	ts := Timestamp{Time: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshaling timestamp: %v", err)
	}
	if string(data) != `"2025-03-14T09:26:53Z"` {
		t.Errorf("got %s", data)
	}

	data, err = json.Marshal(Timestamp{})
	if err != nil {
		t.Fatalf("marshaling zero timestamp: %v", err)
	}
	if string(data) != `null` {
		t.Errorf("zero timestamp marshaled to %s, want null", data)
	}
}
