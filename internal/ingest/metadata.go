package ingest

import (
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/vk/yxflow/internal/workflow"
)

func parseMetadata(root *etree.Element, sourcePath string) workflow.Metadata {
	meta := workflow.Metadata{
		Name:       stem(sourcePath),
		Version:    root.SelectAttrValue("yxmdVer", ""),
		SourcePath: sourcePath,
	}

	props := root.SelectElement("Properties")
	if props == nil {
		return meta
	}
	if info := props.SelectElement("MetaInfo"); info != nil {
		if name := childText(info, "Name"); name != "" {
			meta.Name = name
		}
		meta.Description = childText(info, "Description")
		meta.Author = childText(info, "Author")
	}
	if meta.Description == "" {
		if ann := props.SelectElement("Annotation"); ann != nil {
			meta.Description = childText(ann, "DefaultAnnotationText")
		}
	}
	return meta
}

// stem is the file name without directory or extension. Both separators
// are honoured because documents written on Windows embed `\` paths.
func stem(path string) string {
	base := baseName(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// childText returns the trimmed text of the named child, or "".
func childText(el *etree.Element, tag string) string {
	if el == nil {
		return ""
	}
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

// findText returns the trimmed text of the first element matching path.
func findText(el *etree.Element, path string) string {
	if el == nil {
		return ""
	}
	c := el.FindElement(path)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
