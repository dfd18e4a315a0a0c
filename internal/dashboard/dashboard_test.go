package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealer-scorecard/internal/model"
	"github.com/sells-group/dealer-scorecard/internal/resilience"
	"github.com/sells-group/dealer-scorecard/internal/store"
)

const attributionCSV = `代理商名称,城市,业务经理
A店,杭州,张三
B店,宁波,张三
C店,苏州,李四`

const perfHeader = `代理商,管家,分子,分母,指标,分子,分母,指标,指标,指标,指标,分子,分母,指标,分子,分母,指标,分子,分母,指标,指标,指标`

func perfLine(dealer, who, dccFirst string) string {
	return dealer + "," + who + ",100,100," + dccFirst + ",80,80,100%,90,90,4.90,10,10,100%,10,10,100%,10,10,100%,5.00,5.00"
}

func newTestService(t *testing.T, opts ...Option) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return New(st, opts...), st
}

func TestSampleCSV(t *testing.T) {
	assert.Equal(t, SamplePerformanceCSV, SampleCSV(model.ReportTypePerformance))
	assert.Equal(t, SampleObservationCSV, SampleCSV(model.ReportTypeObservation))
	assert.True(t, strings.HasPrefix(SampleObservationCSV, "代理商,管家"))
}

func TestImportAttribution_ListsManagersAndCities(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.ImportAttribution(ctx, attributionCSV)
	require.NoError(t, err)
	assert.Len(t, m, 3)

	managers, err := svc.Managers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"张三", "李四"}, managers)

	cities, err := svc.Cities(ctx, "张三")
	require.NoError(t, err)
	assert.Equal(t, []string{"宁波", "杭州"}, cities)
}

func TestActiveManager(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	name, err := svc.ActiveManager(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, name)

	_, err = svc.ImportAttribution(ctx, attributionCSV)
	require.NoError(t, err)

	name, err = svc.ActiveManager(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "张三", name)

	name, err = svc.ActiveManager(ctx, " 李四 ")
	require.NoError(t, err)
	assert.Equal(t, "李四", name)
}

func TestUpload_RequiresManager(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), "  ", model.ReportTypePerformance, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoManager))
}

func TestUpload_RejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), "张三", model.ReportType("weekly"), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report type")
}

func TestCSV_FallsBackToSample(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	text, err := svc.CSV(ctx, "张三", model.ReportTypeObservation)
	require.NoError(t, err)
	assert.Equal(t, SampleObservationCSV, text)

	_, err = svc.Upload(ctx, "张三", model.ReportTypeObservation, "uploaded")
	require.NoError(t, err)

	text, err = svc.CSV(ctx, "张三", model.ReportTypeObservation)
	require.NoError(t, err)
	assert.Equal(t, "uploaded", text)
}

func TestRefresh_BuildsAndStoresSnapshot(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportAttribution(ctx, attributionCSV)
	require.NoError(t, err)
	csv := strings.Join([]string{
		perfHeader,
		perfLine("A店", "小计", "100%"),
		perfLine("B店", "小计", "50%"),
		perfLine("B店", "王顾问", "40%"),
		perfLine("C店", "小计", "50%"),
	}, "\n")
	_, err = svc.Upload(ctx, "张三", model.ReportTypePerformance, csv)
	require.NoError(t, err)

	snap, err := svc.Refresh(ctx, "张三", model.ReportTypePerformance)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, []string{"杭州", "宁波"}, snap.Report.Cities())
	assert.Equal(t, 2, snap.Report.DealerCount())

	b := snap.Report.Dealers("宁波")[0]
	assert.False(t, b.IsPassing)
	require.Len(t, b.Managers, 1)
	assert.Equal(t, "王顾问", b.Managers[0].Name)

	stored, err := st.GetSnapshot(ctx, "张三", model.ReportTypePerformance)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, snap.Report.Cities(), stored.Report.Cities())
}

func TestRefresh_SampleWithoutAttribution(t *testing.T) {
	svc, _ := newTestService(t)

	snap, err := svc.Refresh(context.Background(), "张三", model.ReportTypePerformance)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Report.Len())
}

func TestRefresh_PanicServesLastSnapshot(t *testing.T) {
	calls := 0
	svc, _ := newTestService(t, WithProcessFunc(func(text string, rt model.ReportType, attr model.AttributionMap, manager string) *model.CityReport {
		calls++
		if calls > 1 {
			panic("bad row")
		}
		r := model.NewCityReport()
		r.Append("杭州", model.DealerData{Name: "A店", IsPassing: true})
		return r
	}))
	ctx := context.Background()

	first, err := svc.Refresh(ctx, "张三", model.ReportTypePerformance)
	require.NoError(t, err)

	prev, err := svc.Refresh(ctx, "张三", model.ReportTypePerformance)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProcessingFailed))
	assert.Contains(t, err.Error(), "bad row")
	require.NotNil(t, prev)
	assert.Equal(t, first.Report.Cities(), prev.Report.Cities())
}

func TestRefresh_FailureWithoutSnapshot(t *testing.T) {
	svc, _ := newTestService(t, WithProcessFunc(func(string, model.ReportType, model.AttributionMap, string) *model.CityReport {
		panic("boom")
	}))

	prev, err := svc.Refresh(context.Background(), "张三", model.ReportTypeObservation)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProcessingFailed))
	assert.Nil(t, prev)
}

func TestRefresh_LoadErrorIsProcessingFailure(t *testing.T) {
	svc, st := newTestService(t)
	require.NoError(t, st.Close())

	prev, err := svc.Refresh(context.Background(), "张三", model.ReportTypePerformance)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProcessingFailed))
	assert.Nil(t, prev)
}

func TestRefresh_UnknownType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "张三", model.ReportType(""))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrProcessingFailed))
}

type lockedOnceStore struct {
	store.Store
	failures int
}

func (s *lockedOnceStore) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("database is locked (5) (SQLITE_BUSY)")
	}
	return s.Store.SaveSnapshot(ctx, snap)
}

func TestRefresh_RetriesLockedDatabase(t *testing.T) {
	_, st := newTestService(t)
	flaky := &lockedOnceStore{Store: st, failures: 2}
	svc := New(flaky, WithRetryConfig(resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}))

	snap, err := svc.Refresh(context.Background(), "张三", model.ReportTypePerformance)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Zero(t, flaky.failures)

	stored, err := st.GetSnapshot(context.Background(), "张三", model.ReportTypePerformance)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}
