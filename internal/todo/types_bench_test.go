package todo

import (
	"fmt"
	"testing"
	"time"

	"github.com/nibzard/bloom-go/internal/kv"
)

// BenchmarkAdd benchmarks prepending tasks to a growing list.
func BenchmarkAdd(b *testing.B) {
	l := NewList(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Add("task")
	}
}

// BenchmarkLoad benchmarks decoding and validating a 100 task slot.
func BenchmarkLoad(b *testing.B) {
	tasks := make([]Task, 100)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range tasks {
		tasks[i] = Task{ID: int64(100 - i), Text: fmt.Sprintf("Task %d", i), Completed: i%3 == 0, CreatedAt: created}
	}
	store := NewStore(kv.NewMemoryStore(), "", nil)
	store.Save(tasks)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if got := store.Load(); len(got) != 100 {
			b.Fatalf("Load returned %d tasks", len(got))
		}
	}
}
