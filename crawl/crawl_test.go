package crawl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gaurav-prasanna/rpipipe/core/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexPage = `<html><body>
<div>header</div><div>menu</div><div>banner</div>
<div><div><table>
  <tr><th>Número</th><th>Data</th></tr>
  <tr><td> 2790 </td><td>04/06/2024</td></tr>
</table></div></div>
</body></html>`

const movedPage = `<html><body>
<p>Edições</p>
<a href="/txt/RM2788.zip">RM</a>
<a href="http://revistas.inpi.gov.br/txt/P2789.zip">P</a>
<a href="/sobre">sobre</a>
</body></html>`

func serve(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestDiscoverIssue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page string
		want int
	}{
		{"issue table", indexPage, 2790},
		{"archive links fallback", movedPage, 2789},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiscoverIssue(context.Background(), serve(t, tt.page), fetch.New(0))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscoverIssue_NotFound(t *testing.T) {
	t.Parallel()

	_, err := DiscoverIssue(context.Background(), serve(t, "<html><body>vazio</body></html>"), fetch.New(0))
	assert.True(t, errors.Is(err, ErrIssueNotFound))
}

func TestParseArchive(t *testing.T) {
	t.Parallel()

	a, ok := ParseArchive("http://revistas.inpi.gov.br/txt/rm2790.zip?x=1")
	require.True(t, ok)
	assert.Equal(t, Archive{Code: "RM", Issue: 2790}, a)
	assert.Equal(t, "RM2790.zip", a.Name())

	for _, bad := range []string{"RM2790.pdf", "/sobre", "2790.zip", "RMXX12.zip"} {
		_, ok := ParseArchive(bad)
		assert.False(t, ok, bad)
	}
}

func TestArchiveURL(t *testing.T) {
	t.Parallel()

	got, err := ArchiveURL("http://revistas.inpi.gov.br/txt", Archive{Code: "PC", Issue: 2790})
	require.NoError(t, err)
	assert.Equal(t, "http://revistas.inpi.gov.br/txt/PC2790.zip", got)
}

func TestPlan_Deduplicates(t *testing.T) {
	t.Parallel()

	q := Plan(2790, []string{"RM", "P", "RM", "DI"})
	require.Equal(t, 3, q.Len())

	var names []string
	for q.HasNext() {
		names = append(names, q.Next().Name())
	}
	assert.Equal(t, []string{"RM2790.zip", "P2790.zip", "DI2790.zip"}, names)
	assert.False(t, q.HasNext())
}
