//go:build integration_test || all_tests

package integration_testing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
	"github.com/2beens/hypertrophytoolbox/internal/training/volume"
)

type ServerTestSuite struct {
	suite.Suite
	env *Suite
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupSuite() {
	s.env = newSuite(context.Background())
}

func (s *ServerTestSuite) TearDownSuite() {
	s.env.cleanup()
}

func (s *ServerTestSuite) get(path string) (*http.Response, []byte) {
	resp, err := http.Get(serverEndpoint + path)
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, body
}

func (s *ServerTestSuite) TestVersion() {
	resp, body := s.get("/version")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("test-version-info", string(body))
}

func (s *ServerTestSuite) TestPlanSummary() {
	resp, body := s.get("/volume/summary?source=plan")
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var summary volume.ClassifiedSummary
	s.Require().NoError(json.Unmarshal(body, &summary))
	s.Equal(volume.MethodTotal, summary.Method)
	s.False(summary.Diagnostics.Degraded())

	direct := make(map[catalog.MuscleGroup]float64)
	for _, mv := range summary.Direct {
		direct[mv.Muscle] = mv.Sets
	}
	s.Equal(map[catalog.MuscleGroup]float64{"Chest": 7, "Upper Back": 4}, direct)
}

func (s *ServerTestSuite) TestLogSummaryAverage() {
	resp, body := s.get("/volume/summary?source=log&method=Average&exercise=Bench+Press")
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var summary volume.ClassifiedSummary
	s.Require().NoError(json.Unmarshal(body, &summary))
	s.Require().Len(summary.Direct, 1)
	s.Equal(4.0, summary.Direct[0].Sets)
}

func (s *ServerTestSuite) TestSessions() {
	resp, body := s.get("/volume/sessions")
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var summary volume.SessionSummary
	s.Require().NoError(json.Unmarshal(body, &summary))
	s.Require().Len(summary.Routines, 2)
	s.Equal("Pull A", summary.Routines[0].Routine)
	s.Equal("Push A", summary.Routines[1].Routine)
}

func (s *ServerTestSuite) TestBadRequest() {
	resp, _ := s.get("/volume/summary?source=plan&from=2024-01-01")
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.get("/volume/summary?bodypart=chest")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestExportRateLimited() {
	resp, body := s.get("/volume/export")
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.True(strings.HasPrefix(string(body), "muscle,role,sets,class,label\n"))

	_, _ = s.get("/volume/export")
	resp, _ = s.get("/volume/export")
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
}
