package inspection

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cap-inspect/internal/models"
)

func passSet(labels ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

func record(label string, confidence float64) models.ClassificationRecord {
	rec := models.ClassificationRecord{
		Timestamp: time.Now().Truncate(time.Second),
		Label:     label,
	}
	if label != models.LabelNoObject {
		rec.Confidence = &confidence
	}
	return rec
}

func TestCounters_ApplyMatchesReload(t *testing.T) {
	labels := passSet("Cap_On")
	records := []models.ClassificationRecord{
		record("Cap_On", 0.91),
		record("Cap_Off", 0.65),
		record(models.LabelNoObject, 0),
		record("Cap_On", 0.88),
		record("Scratch", 0.72),
	}

	incremental := NewCounters()
	for _, rec := range records {
		incremental.Apply(rec, labels)
	}

	replayed := NewCounters()
	replayed.Reload(records, labels)

	require.Equal(t, replayed.Snapshot(), incremental.Snapshot())
}

func TestCounters_NoDetectionExcluded(t *testing.T) {
	labels := passSet("Cap_On")
	c := NewCounters()

	c.Apply(record(models.LabelNoObject, 0), labels)
	c.Apply(record(models.LabelNoObject, 0), labels)

	snap := c.Snapshot()
	require.Equal(t, 0, snap.TotalScanned)
	require.Equal(t, 0, snap.TotalGood)
	require.Equal(t, 0, snap.TotalDefect)
}

func TestCounters_PassRejectPartition(t *testing.T) {
	labels := passSet("Cap_On")
	c := NewCounters()

	c.Apply(record("Cap_On", 0.91), labels)
	c.Apply(record("Cap_Off", 0.65), labels)
	c.Apply(record("Cap_On", 0.8), labels)
	c.Apply(record(models.LabelNoObject, 0), labels)

	snap := c.Snapshot()
	require.Equal(t, snap.TotalScanned, snap.TotalGood+snap.TotalDefect)
	require.Equal(t, 3, snap.TotalScanned)
	require.Equal(t, 2, snap.TotalGood)
	require.Equal(t, 1, snap.TotalDefect)
}

func TestCounters_ConcurrentApplyEquivalence(t *testing.T) {
	labels := passSet("Cap_On")
	c := NewCounters()

	perWorker := []models.ClassificationRecord{
		record("Cap_On", 0.9),
		record("Cap_Off", 0.6),
		record(models.LabelNoObject, 0),
	}

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, rec := range perWorker {
				c.Apply(rec, labels)
			}
		}()
	}
	wg.Wait()

	var all []models.ClassificationRecord
	for i := 0; i < workers; i++ {
		all = append(all, perWorker...)
	}
	replayed := NewCounters()
	replayed.Reload(all, labels)

	require.Equal(t, replayed.Snapshot(), c.Snapshot())
}

func TestCounters_Reset(t *testing.T) {
	labels := passSet("Cap_On")
	c := NewCounters()
	c.Apply(record("Cap_On", 0.9), labels)
	c.Apply(record("Cap_Off", 0.6), labels)

	c.Reset()

	require.Equal(t, models.CounterSnapshot{}, c.Snapshot())
}
