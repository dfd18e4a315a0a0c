package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestReportType_Valid(t *testing.T) {
	assert.True(t, ReportTypePerformance.Valid())
	assert.True(t, ReportTypeObservation.Valid())
	assert.False(t, ReportType("").Valid())
	assert.False(t, ReportType("weekly").Valid())
}

func TestDealerData_AllGood(t *testing.T) {
	assert.True(t, DealerData{IsPassing: true}.AllGood())
	assert.False(t, DealerData{IsPassing: false}.AllGood())
	assert.False(t, DealerData{IsPassing: true, Managers: []ManagerData{{Name: "王顾问"}}}.AllGood())
}

func TestCityReport_AppendKeepsOrder(t *testing.T) {
	r := NewCityReport()
	r.Append("西安", DealerData{Name: "A"})
	r.Append("兰州", DealerData{Name: "B"})
	r.Append("西安", DealerData{Name: "C"})

	assert.Equal(t, []string{"西安", "兰州"}, r.Cities())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 3, r.DealerCount())
	require.Len(t, r.Dealers("西安"), 2)
	assert.Equal(t, "C", r.Dealers("西安")[1].Name)
	assert.Nil(t, r.Dealers("银川"))
}

func TestCityReport_CitiesIsCopy(t *testing.T) {
	r := NewCityReport()
	r.Append("西安", DealerData{Name: "A"})
	cities := r.Cities()
	cities[0] = "changed"
	assert.Equal(t, []string{"西安"}, r.Cities())
}

func TestCityReport_JSONRoundTrip(t *testing.T) {
	v := 4.5
	r := NewCityReport()
	r.Append("西安", DealerData{Name: "A", IsPassing: true, Summary: ManagerData{Name: "小计", Metrics: map[string]*float64{"transSat": &v, "deliverySat": nil}}})
	r.Append("兰州", DealerData{Name: "B"})

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(b), "西安"), strings.Index(string(b), "兰州"))

	got := NewCityReport()
	require.NoError(t, json.Unmarshal(b, got))
	assert.Equal(t, r.Cities(), got.Cities())
	m := got.Dealers("西安")[0].Summary.Metrics
	require.NotNil(t, m["transSat"])
	assert.Equal(t, 4.5, *m["transSat"])
	assert.Nil(t, m["deliverySat"])
}

func TestCityReport_EmptyJSON(t *testing.T) {
	b, err := json.Marshal(NewCityReport())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))

	got := NewCityReport()
	require.NoError(t, json.Unmarshal([]byte(`{}`), got))
	assert.Equal(t, 0, got.Len())
}

func TestCityReport_UnmarshalInvalid(t *testing.T) {
	got := NewCityReport()
	assert.Error(t, json.Unmarshal([]byte(`{"西安": 1}`), got))
}

func TestCityReport_YAMLKeepsOrder(t *testing.T) {
	r := NewCityReport()
	r.Append("西安", DealerData{Name: "A"})
	r.Append("兰州", DealerData{Name: "B"})

	b, err := yaml.Marshal(r)
	require.NoError(t, err)
	out := string(b)
	assert.Less(t, strings.Index(out, "西安:"), strings.Index(out, "兰州:"))
	assert.Contains(t, out, "name: B")
}
