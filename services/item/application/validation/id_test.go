package validation

import (
	"reflect"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr string
	}{
		{raw: "42", want: 42},
		{raw: "1", want: 1},
		{raw: "9223372036854775807", want: 9223372036854775807},
		{raw: "", wantErr: "id: ID is required"},
		{raw: "0", wantErr: "id: ID must be a positive number"},
		{raw: "-1", wantErr: "id: ID must be a positive number"},
		{raw: "abc", wantErr: "id: ID must be a number"},
		{raw: "12abc", wantErr: "id: ID must be a number"},
		{raw: "1.5", wantErr: "id: ID must be an integer"},
		{raw: "9223372036854775808", wantErr: "id: ID must be less than or equal to 9223372036854775807"},
		{raw: "-9223372036854775809", wantErr: "id: ID must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ValidateID(tt.raw)
			if tt.wantErr != "" {
				if d := details(t, err); !reflect.DeepEqual(d, []string{tt.wantErr}) {
					t.Fatalf("got %q, want %q", d, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}
