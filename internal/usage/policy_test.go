package usage

import "testing"

func TestFieldPolicy(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
		p    FieldPolicy
		want bool
	}{
		{
			name: "private field tracked",
			decl: Declaration{Kind: KindField, Accessibility: AccessPrivate},
			want: true,
		},
		{
			name: "public field exempt",
			decl: Declaration{Kind: KindField, Accessibility: AccessPublic},
			want: false,
		},
		{
			name: "protected field exempt",
			decl: Declaration{Kind: KindField, Accessibility: AccessProtected},
			want: false,
		},
		{
			name: "internal field exempt by default",
			decl: Declaration{Kind: KindField, Accessibility: AccessInternal},
			want: false,
		},
		{
			name: "internal field tracked when enabled",
			decl: Declaration{Kind: KindField, Accessibility: AccessInternal},
			p:    FieldPolicy{TrackInternal: true},
			want: true,
		},
		{
			name: "synthesized backing storage exempt",
			decl: Declaration{Kind: KindField, Accessibility: AccessPrivate, Synthesized: true},
			want: false,
		},
		{
			name: "compile-time constant exempt",
			decl: Declaration{Kind: KindField, Accessibility: AccessPrivate, Const: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.ShouldTrack(tt.decl); got != tt.want {
				t.Errorf("ShouldTrack(%+v) = %v, want %v", tt.decl, got, tt.want)
			}
		})
	}
}

func TestParamPolicy(t *testing.T) {
	base := Declaration{Kind: KindParameter, HasBody: true}

	tests := []struct {
		name   string
		mutate func(*Declaration)
		p      ParamPolicy
		want   bool
	}{
		{"plain parameter tracked", func(*Declaration) {}, ParamPolicy{}, true},
		{"override signature exempt", func(d *Declaration) { d.Override = true }, ParamPolicy{}, false},
		{"interface implementation exempt", func(d *Declaration) { d.Implements = true }, ParamPolicy{}, false},
		{"no body to analyze exempt", func(d *Declaration) { d.HasBody = false }, ParamPolicy{}, false},
		{"discard name exempt", func(d *Declaration) { d.Discard = true }, ParamPolicy{}, false},
		{"attributed parameter exempt", func(d *Declaration) { d.Attributed = true }, ParamPolicy{}, false},
		{"attributed tracked when enabled", func(d *Declaration) { d.Attributed = true }, ParamPolicy{TrackAttributed: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.mutate(&d)
			if got := tt.p.ShouldTrack(d); got != tt.want {
				t.Errorf("ShouldTrack(%+v) = %v, want %v", d, got, tt.want)
			}
		})
	}
}

func TestChainShortCircuits(t *testing.T) {
	calls := 0
	counting := PolicyFunc(func(Declaration) bool { calls++; return true })
	reject := PolicyFunc(func(Declaration) bool { return false })

	p := Chain(reject, counting)
	if p.ShouldTrack(Declaration{}) {
		t.Fatal("chain with rejecting policy must reject")
	}
	if calls != 0 {
		t.Errorf("later policies evaluated after rejection: %d calls", calls)
	}

	p = Chain(counting, counting)
	if !p.ShouldTrack(Declaration{}) {
		t.Fatal("all-accepting chain must accept")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestExemptNames(t *testing.T) {
	p := Chain(ParamPolicy{}, ExemptNames("ctx", "logger"))

	d := Declaration{Name: "ctx", Kind: KindParameter, HasBody: true}
	if p.ShouldTrack(d) {
		t.Error("listed name must be exempt")
	}

	d.Name = "payload"
	if !p.ShouldTrack(d) {
		t.Error("unlisted name must stay tracked")
	}
}
