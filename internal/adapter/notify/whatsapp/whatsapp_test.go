package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MikeRez0/trucksy/internal/adapter/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClient_SendText(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "sent", status: http.StatusOK, body: `{"sent":"true","message":"ok","id":1}`},
		{name: "rejected", status: http.StatusOK, body: `{"error":"wrong token"}`, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/instance1/messages/chat", r.URL.Path)
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "tkn", r.PostForm.Get("token"))
				assert.Equal(t, "966500000001", r.PostForm.Get("to"))
				assert.Equal(t, "hello", r.PostForm.Get("body"))
				w.WriteHeader(test.status)
				_, _ = w.Write([]byte(test.body))
			}))
			defer srv.Close()

			c := NewClient(&config.WhatsApp{BaseURL: srv.URL, Instance: "instance1", Token: "tkn"}, zap.NewNop())
			err := c.SendText(context.Background(), "+966 50 000 0001", "hello")
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_Disabled(t *testing.T) {
	c := NewClient(&config.WhatsApp{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	assert.False(t, c.Enabled())
	assert.NoError(t, c.SendText(context.Background(), "966500000001", "hello"))
}
