// control/directive_test.go
// Author: momentics <momentics@gmail.com>

package control

import "testing"

func TestParseDirective_Defaults(t *testing.T) {
	spec, err := ParseDirective("thread_pool default")
	if err != nil {
		t.Fatalf("ParseDirective: %v", err)
	}
	if spec.Name != "default" || spec.Threads != DefaultThreads || spec.MaxQueue != DefaultMaxQueue {
		t.Fatalf("got %+v", spec)
	}
}

func TestParseDirective_Overrides(t *testing.T) {
	spec, err := ParseDirective("thread_pool io threads=8 max_queue=1024")
	if err != nil {
		t.Fatalf("ParseDirective: %v", err)
	}
	if spec.Name != "io" || spec.Threads != 8 || spec.MaxQueue != 1024 {
		t.Fatalf("got %+v", spec)
	}
}

func TestParseDirective_BlankAndComment(t *testing.T) {
	for _, line := range []string{"", "   ", "# a comment", "  # indented comment"} {
		spec, err := ParseDirective(line)
		if err != nil || spec != nil {
			t.Fatalf("ParseDirective(%q) = %+v, %v; want nil, nil", line, spec, err)
		}
	}
}

func TestParseDirective_UnknownParameter(t *testing.T) {
	if _, err := ParseDirective("thread_pool io bogus=1"); err == nil {
		t.Fatal("expected error for unknown parameter")
	}
}

func TestParseDirective_NonIntegerValue(t *testing.T) {
	if _, err := ParseDirective("thread_pool io threads=many"); err == nil {
		t.Fatal("expected error for non-integer threads")
	}
}

func TestParseDirective_NotAThreadPoolLine(t *testing.T) {
	if _, err := ParseDirective("worker_processes 4"); err == nil {
		t.Fatal("expected error for unrecognized directive")
	}
}

func TestParseDirective_NamedPoolRequiresThreads(t *testing.T) {
	if _, err := ParseDirective("thread_pool io max_queue=100"); err == nil {
		t.Fatal("expected error: non-default pool must have \"threads\" parameter")
	}
}

func TestParseDirective_NamedPoolWithThreadsIsValid(t *testing.T) {
	spec, err := ParseDirective("thread_pool io threads=4")
	if err != nil {
		t.Fatalf("ParseDirective: %v", err)
	}
	if spec.Threads != 4 {
		t.Fatalf("got %+v", spec)
	}
}

func TestParseDirectives_RejectsDuplicateNames(t *testing.T) {
	_, err := ParseDirectives([]string{
		"thread_pool default",
		"thread_pool default threads=4",
	})
	if err == nil {
		t.Fatal("expected error for duplicate pool name")
	}
}

func TestParseDirectives_InjectsDefaultWhenAbsent(t *testing.T) {
	specs, err := ParseDirectives([]string{
		"thread_pool io threads=4 max_queue=100",
	})
	if err != nil {
		t.Fatalf("ParseDirectives: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2 (implicit default + io)", len(specs))
	}
	if specs[0].Name != DefaultPoolName || specs[0].Threads != DefaultThreads || specs[0].MaxQueue != DefaultMaxQueue {
		t.Fatalf("implicit default spec = %+v, want threads=%d max_queue=%d", specs[0], DefaultThreads, DefaultMaxQueue)
	}
	if specs[1].Name != "io" {
		t.Fatalf("got %+v", specs)
	}
}

func TestParseDirectives_NoImplicitDefaultWhenDeclaredExplicitly(t *testing.T) {
	specs, err := ParseDirectives([]string{
		"thread_pool default threads=2 max_queue=8",
	})
	if err != nil {
		t.Fatalf("ParseDirectives: %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("got %d specs, want 1 (no duplicate default injected)", len(specs))
	}
	if specs[0].Threads != 2 || specs[0].MaxQueue != 8 {
		t.Fatalf("explicit default spec was overwritten: %+v", specs[0])
	}
}

func TestParseDirectives_MultipleAndSkips(t *testing.T) {
	specs, err := ParseDirectives([]string{
		"# pools",
		"thread_pool default",
		"",
		"thread_pool io threads=4 max_queue=100",
	})
	if err != nil {
		t.Fatalf("ParseDirectives: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}
	if specs[0].Name != "default" || specs[1].Name != "io" {
		t.Fatalf("got %+v", specs)
	}
}
