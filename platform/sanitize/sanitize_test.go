package sanitize

import "testing"

func TestQuery(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Damrak 1, Amsterdam", "Damrak 1, Amsterdam"},
		{"  Damrak\t1\n Amsterdam ", "Damrak 1 Amsterdam"},
		{"<b>Damrak</b> 1", "Damrak 1"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Dam", "alert(1)Dam"},
		{"Rue d&#39;Antibes", "Rue d'Antibes"},
	}
	for _, tc := range cases {
		if got := Query(tc.in); got != tc.want {
			t.Fatalf("Query(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
