package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestScriptTexts(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html>
<head>
	<script src="/wp-includes/js/jquery.js"></script>
	<script>var a = 1;</script>
</head>
<body>
	<p>hello <b>world</b></p>
	<script type="text/javascript">var ASL_REMOTE = {"nonce":"abc"};</script>
</body>
</html>`))
	require.NoError(t, err)

	scripts := ScriptTexts(doc)
	require.Equal(t, []string{
		"var a = 1;",
		`var ASL_REMOTE = {"nonce":"abc"};`,
	}, scripts)

	require.Equal(t, "hello world", GetText(doc.Find("p").Nodes[0]))
	require.Equal(t, "", GetText(nil))
}
