package inspection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"cap-inspect/internal/logger"
	"cap-inspect/internal/models"
	"cap-inspect/internal/services/ai"
)

// scriptedDetector plays back a fixed sequence of detection results.
type scriptedDetector struct {
	mu      sync.Mutex
	script  [][]ai.Detection
	pos     int
	offline bool
}

func (d *scriptedDetector) Detect(frame []byte) ([]ai.Detection, error) {
	if d.offline {
		return nil, ai.ErrModelUnavailable
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pos >= len(d.script) {
		return nil, nil
	}
	detections := d.script[d.pos]
	d.pos++
	return detections, nil
}

func (d *scriptedDetector) Ready() bool { return !d.offline }
func (d *scriptedDetector) Close()      {}

func newTestService(t *testing.T, detector ai.Detector) (*Service, *Log) {
	t.Helper()
	log := tempLog(t)
	svc, err := NewService(log, passSet("Cap_On"), detector, logger.NewLogger(t.TempDir()))
	require.NoError(t, err)
	return svc, log
}

func TestService_ClassifyScenario(t *testing.T) {
	detector := &scriptedDetector{script: [][]ai.Detection{
		{{Label: "Cap_On", Confidence: 0.91}},
		{{Label: "Cap_Off", Confidence: 0.65}},
		{}, // no detection
	}}
	svc, log := newTestService(t, detector)

	out, err := svc.Classify([]byte("frame1"))
	require.NoError(t, err)
	require.Equal(t, models.StatusPass, out.Status)
	require.Equal(t, "Cap_On", out.Prediction)
	require.Equal(t, 0.91, *out.Confidence)

	out, err = svc.Classify([]byte("frame2"))
	require.NoError(t, err)
	require.Equal(t, models.StatusReject, out.Status)

	out, err = svc.Classify([]byte("frame3"))
	require.NoError(t, err)
	require.Equal(t, models.StatusUndefined, out.Status)
	require.Equal(t, models.LabelNoObject, out.Prediction)
	require.Nil(t, out.Confidence)

	snap := svc.Snapshot()
	require.Equal(t, 2, snap.TotalScanned)
	require.Equal(t, 1, snap.TotalGood)
	require.Equal(t, 1, snap.TotalDefect)

	results := svc.Results()
	require.Equal(t, 50.0, results.SuccessRate)
	require.Equal(t, 50.0, results.ErrorRate)

	records, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestService_FirstDetectionWins(t *testing.T) {
	detector := &scriptedDetector{script: [][]ai.Detection{
		{
			{Label: "Cap_Off", Confidence: 0.55},
			{Label: "Cap_On", Confidence: 0.99},
		},
	}}
	svc, _ := newTestService(t, detector)

	out, err := svc.Classify([]byte("frame"))
	require.NoError(t, err)
	require.Equal(t, "Cap_Off", out.Prediction)
	require.Equal(t, models.StatusReject, out.Status)
}

func TestService_ConfidenceRoundedToThreeDecimals(t *testing.T) {
	detector := &scriptedDetector{script: [][]ai.Detection{
		{{Label: "Cap_On", Confidence: 0.912777}},
	}}
	svc, log := newTestService(t, detector)

	out, err := svc.Classify([]byte("frame"))
	require.NoError(t, err)
	require.Equal(t, 0.913, *out.Confidence)

	records, err := log.ReadAll()
	require.NoError(t, err)
	require.Equal(t, 0.913, *records[0].Confidence)
}

func TestService_ModelUnavailable(t *testing.T) {
	svc, log := newTestService(t, &scriptedDetector{offline: true})

	_, err := svc.Classify([]byte("frame"))
	require.ErrorIs(t, err, ai.ErrModelUnavailable)

	records, err := log.ReadAll()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestService_CountersMatchLogUnderConcurrency(t *testing.T) {
	// Enough script entries for every concurrent classify.
	const workers = 8
	const perWorker = 5

	var script [][]ai.Detection
	for i := 0; i < workers*perWorker; i++ {
		switch i % 3 {
		case 0:
			script = append(script, []ai.Detection{{Label: "Cap_On", Confidence: 0.9}})
		case 1:
			script = append(script, []ai.Detection{{Label: "Cap_Off", Confidence: 0.6}})
		default:
			script = append(script, nil)
		}
	}
	svc, log := newTestService(t, &scriptedDetector{script: script})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := svc.Classify([]byte("frame"))
				require.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	records, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, workers*perWorker)

	replayed := NewCounters()
	replayed.Reload(records, svc.PassLabels())
	require.Equal(t, replayed.Snapshot(), svc.Snapshot())
}

func TestService_ResetClearsEverything(t *testing.T) {
	detector := &scriptedDetector{script: [][]ai.Detection{
		{{Label: "Cap_Off", Confidence: 0.65}},
	}}
	svc, log := newTestService(t, detector)

	_, err := svc.Classify([]byte("frame"))
	require.NoError(t, err)

	require.NoError(t, svc.Reset())

	require.Equal(t, models.CounterSnapshot{}, svc.Snapshot())

	require.NoError(t, svc.ReloadFromLog())
	require.Equal(t, models.CounterSnapshot{}, svc.Snapshot())

	records, err := log.ReadAll()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestService_RestartRestoresCounters(t *testing.T) {
	detector := &scriptedDetector{script: [][]ai.Detection{
		{{Label: "Cap_On", Confidence: 0.91}},
		{{Label: "Cap_Off", Confidence: 0.65}},
	}}
	svc, log := newTestService(t, detector)

	_, err := svc.Classify([]byte("frame1"))
	require.NoError(t, err)
	_, err = svc.Classify([]byte("frame2"))
	require.NoError(t, err)

	// Simulate a process restart over the same log file.
	restarted, err := NewService(log, passSet("Cap_On"), detector, logger.NewLogger(t.TempDir()))
	require.NoError(t, err)

	require.Equal(t, svc.Snapshot(), restarted.Snapshot())
}

func TestService_ZeroScannedRates(t *testing.T) {
	svc, _ := newTestService(t, &scriptedDetector{})

	results := svc.Results()
	require.Equal(t, 0.0, results.SuccessRate)
	require.Equal(t, 0.0, results.ErrorRate)
}
