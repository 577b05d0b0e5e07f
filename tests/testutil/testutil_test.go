package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteDB_MigratesTables(t *testing.T) {
	db := NewSQLiteDB(t)

	assert.True(t, db.Migrator().HasTable("sellers"))
	assert.True(t, db.Migrator().HasTable("outbox_events"))
}

func TestNewMockDB_Ping(t *testing.T) {
	mockDB := NewMockDB(t)
	mockDB.Mock.ExpectPing()

	require.NoError(t, mockDB.SqlDB.PingContext(context.Background()))
	mockDB.ExpectationsWereMet(t)
}

func TestNewMockDB_Query(t *testing.T) {
	mockDB := NewMockDB(t)
	mockDB.Mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	var n int
	require.NoError(t, mockDB.DB.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
	mockDB.ExpectationsWereMet(t)
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)
	tc.SetHeader("X-Request-ID", "req-1")

	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
	assert.Equal(t, "req-1", tc.Context.GetHeader("X-Request-ID"))
}

func TestNewTestUUID_IsStable(t *testing.T) {
	assert.Equal(t, NewTestUUID("seller"), NewTestUUID("seller"))
	assert.NotEqual(t, NewTestUUID("seller"), NewTestUUID("customer"))
}

func TestRecordingHandler(t *testing.T) {
	h := NewRecordingHandler("a.created")
	require.NoError(t, h.Handle(context.Background(), NewTestEvent("a.created")))

	h.SetError(assert.AnError)
	assert.ErrorIs(t, h.Handle(context.Background(), NewTestEvent("a.created")), assert.AnError)

	assert.Equal(t, []string{"a.created"}, h.EventTypes())
	assert.Equal(t, []string{"a.created", "a.created"}, h.HandledTypes())
	assert.True(t, WaitForEventCount(h, 2, 10*time.Millisecond))
}

func TestPerformRequest_DecodesEnvelope(t *testing.T) {
	engine := gin.New()
	engine.GET("/items", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": []string{"x"}, "count": 1, "offset": 0, "limit": 20})
	})
	engine.POST("/fail", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"type": "invalid_data", "message": "bad"})
	})

	items := AssertListEnvelope(t, PerformRequest(t, engine, http.MethodGet, "/items", nil, nil), "items", 1)
	assert.Len(t, items, 1)

	w := PerformRequest(t, engine, http.MethodPost, "/fail", map[string]string{"a": "b"}, BearerHeader("t"))
	AssertError(t, w, http.StatusBadRequest, "invalid_data")
}
