package cache

import (
	"sync"
	"sync/atomic"
	"testing"

	"helios-hq/triton/internal/schematest"
	"helios-hq/triton/pkg/schema"
	"helios-hq/triton/pkg/schema/view"
	"helios-hq/triton/pkg/validator"
)

func newPersonCompiler() *validator.Compiler {
	return validator.NewCompiler(view.NewSchemaView(schematest.PersonSchema()), validator.DefaultOptions())
}

type countingRecorder struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (r *countingRecorder) CacheHit()  { r.hits.Add(1) }
func (r *countingRecorder) CacheMiss() { r.misses.Add(1) }

func TestGetOrCompileCachesProgram(t *testing.T) {
	recorder := &countingRecorder{}
	c := New(WithRecorder(recorder))
	compiler := newPersonCompiler()

	first, err := c.GetOrCompile(compiler, "Person")
	if err != nil {
		t.Fatalf("GetOrCompile() error: %v", err)
	}
	second, err := c.GetOrCompile(compiler, "Person")
	if err != nil {
		t.Fatalf("GetOrCompile() second call error: %v", err)
	}

	if first != second {
		t.Error("second call should return the cached program")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if recorder.misses.Load() != 1 || recorder.hits.Load() != 1 {
		t.Errorf("recorder = %d misses / %d hits, want 1/1",
			recorder.misses.Load(), recorder.hits.Load())
	}
}

func TestGetOrCompileKeyIncludesOptions(t *testing.T) {
	c := New()
	s := schematest.PersonSchema()
	v := view.NewSchemaView(s)

	defaults := validator.NewCompiler(v, validator.DefaultOptions())
	bare := validator.NewCompiler(v, validator.Options{})

	first, err := c.GetOrCompile(defaults, "Person")
	if err != nil {
		t.Fatalf("GetOrCompile(defaults) error: %v", err)
	}
	second, err := c.GetOrCompile(bare, "Person")
	if err != nil {
		t.Fatalf("GetOrCompile(bare) error: %v", err)
	}

	if first == second {
		t.Error("different option sets must cache separately")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestGetOrCompileFailureNotCached(t *testing.T) {
	s := schema.NewSchema("https://example.org/s", "s")
	s.AddClass(&schema.ClassDefinition{Name: "Broken", Abstract: true})
	compiler := validator.NewCompiler(view.NewSchemaView(s), validator.DefaultOptions())

	c := New()
	if _, err := c.GetOrCompile(compiler, "Broken"); err == nil {
		t.Fatal("compiling an abstract class should fail")
	}
	if c.Len() != 0 {
		t.Errorf("failed compilation was cached: Len() = %d", c.Len())
	}
}

func TestGetOrCompileSingleFlight(t *testing.T) {
	c := New()
	compiler := newPersonCompiler()

	const goroutines = 32
	var wg sync.WaitGroup
	programs := make([]*validator.Program, goroutines)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			programs[g], _ = c.GetOrCompile(compiler, "Person")
		}(g)
	}
	wg.Wait()

	for g := 1; g < goroutines; g++ {
		if programs[g] == nil {
			t.Fatalf("goroutine %d got no program", g)
		}
		if programs[g] != programs[0] {
			t.Error("concurrent first callers should share one compiled program")
			break
		}
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestInvalidate(t *testing.T) {
	c := New()
	compiler := newPersonCompiler()

	first, err := c.GetOrCompile(compiler, "Person")
	if err != nil {
		t.Fatalf("GetOrCompile() error: %v", err)
	}

	key := Key{
		SchemaID: compiler.SchemaID(),
		Class:    "Person",
		Options:  compiler.Options().Fingerprint(),
	}
	if _, ok := c.Get(key); !ok {
		t.Fatal("program should be retrievable by key")
	}

	c.Invalidate(key)
	if _, ok := c.Get(key); ok {
		t.Error("invalidated key should be gone")
	}

	second, err := c.GetOrCompile(compiler, "Person")
	if err != nil {
		t.Fatalf("GetOrCompile() after invalidation error: %v", err)
	}
	if second == first {
		t.Error("invalidation should force a fresh compilation")
	}
}

func TestInvalidateSchema(t *testing.T) {
	c := New()

	personCompiler := newPersonCompiler()
	if _, err := c.GetOrCompile(personCompiler, "Person"); err != nil {
		t.Fatalf("GetOrCompile(Person) error: %v", err)
	}

	other := schema.NewSchema("https://example.org/other", "other")
	other.AddClass(&schema.ClassDefinition{Name: "Thing"})
	otherCompiler := validator.NewCompiler(view.NewSchemaView(other), validator.DefaultOptions())
	if _, err := c.GetOrCompile(otherCompiler, "Thing"); err != nil {
		t.Fatalf("GetOrCompile(Thing) error: %v", err)
	}

	dropped := c.InvalidateSchema(personCompiler.SchemaID())
	if dropped != 1 {
		t.Errorf("InvalidateSchema() dropped %d, want 1", dropped)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want the other schema's program to survive", c.Len())
	}

	if dropped := c.InvalidateSchema("https://example.org/unknown"); dropped != 0 {
		t.Errorf("unknown schema dropped %d programs", dropped)
	}
}

func TestClear(t *testing.T) {
	c := New()
	if _, err := c.GetOrCompile(newPersonCompiler(), "Person"); err != nil {
		t.Fatalf("GetOrCompile() error: %v", err)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d", c.Len())
	}
}
