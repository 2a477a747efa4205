package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlain(t *testing.T) {
	text, err := New().Text(MIMEPlain, []byte("Jane Doe\nGo developer"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)
}

func TestTextRejects(t *testing.T) {
	tests := []struct {
		name string
		mime string
		data []byte
		want error
	}{
		{name: "unsupported mime", mime: "image/png", data: []byte{0x89, 'P', 'N', 'G'}, want: ErrUnsupportedType},
		{name: "empty pdf", mime: MIMEPDF, data: nil, want: ErrEmptyDocument},
		{name: "empty plain", mime: MIMEPlain, data: []byte{}, want: ErrEmptyDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Text(tt.mime, tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTextFromFixtures(t *testing.T) {
	tests := []struct {
		file string
		mime string
		want string
	}{
		{file: "resume.pdf", mime: MIMEPDF, want: "Jane Doe Resume\nExperience: Go"},
		{file: "resume.docx", mime: MIMEDocx, want: "Jane Doe\nSenior Go & SQL\tEngineer"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("testdata", tt.file))
			require.NoError(t, err)

			text, err := New().Text(tt.mime, data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			assert.NotContains(t, text, "<w:")
		})
	}
}

func TestDocumentXMLText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "paragraphs and runs",
			content: `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>A</w:t></w:r><w:r><w:t xml:space="preserve"> B</w:t></w:r></w:p><w:p><w:r><w:t>C</w:t></w:r></w:p></w:body></w:document>`,
			want:    "A B\nC",
		},
		{
			name:    "line break inside a paragraph",
			content: `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>one</w:t><w:br/><w:t>two</w:t></w:r></w:p></w:body></w:document>`,
			want:    "one\ntwo",
		},
		{
			name:    "text outside runs is ignored",
			content: `<w:document xmlns:w="x"><w:body><w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p></w:body></w:document>`,
			want:    "Title",
		},
		{
			name:    "broken markup",
			content: `<w:document xmlns:w="x"><w:body><w:p>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := documentXMLText(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextCorruptDocuments(t *testing.T) {
	for _, mime := range []string{MIMEPDF, MIMEDocx} {
		t.Run(mime, func(t *testing.T) {
			_, err := New().Text(mime, []byte("this is not a real document"))
			assert.Error(t, err)
		})
	}
}

func TestMIMEFromName(t *testing.T) {
	tests := map[string]string{
		"resume.pdf":      MIMEPDF,
		"Resume.PDF":      MIMEPDF,
		"cv.docx":         MIMEDocx,
		"notes.txt":       MIMEPlain,
		"photo.jpeg":      "",
		"no-extension":    "",
		"archive.pdf.zip": "",
	}
	for name, want := range tests {
		assert.Equal(t, want, MIMEFromName(name), name)
	}
}
