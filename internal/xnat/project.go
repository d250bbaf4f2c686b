package xnat

import (
	"encoding/xml"
	"fmt"

	"github.com/daniloc96/canvas-xnat-sync/internal/models"
)

const projectNamespace = "http://nrg.wustl.edu/xnat"

type projectData struct {
	XMLName     xml.Name `xml:"xnat:projectData"`
	Namespace   string   `xml:"xmlns:xnat,attr"`
	ID          string   `xml:"xnat:ID"`
	SecondaryID string   `xml:"xnat:secondary_ID"`
	Name        string   `xml:"xnat:name"`
}

// MarshalProject renders the xnat:projectData document for a new project.
func MarshalProject(project models.ProjectDescriptor) ([]byte, error) {
	doc := projectData{
		Namespace:   projectNamespace,
		ID:          project.ID,
		SecondaryID: project.SecondaryID,
		Name:        project.Name,
	}
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding project %s: %w", project.ID, err)
	}
	return append([]byte(xml.Header), body...), nil
}
