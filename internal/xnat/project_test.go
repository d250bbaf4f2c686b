package xnat

import (
	"strings"
	"testing"

	"github.com/daniloc96/canvas-xnat-sync/internal/models"
)

func TestMarshalProject(t *testing.T) {
	body, err := MarshalProject(models.ProjectDescriptor{ID: "100", SecondaryID: "100", Name: "Radiology & Imaging"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	doc := string(body)
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<xnat:projectData xmlns:xnat="http://nrg.wustl.edu/xnat">`,
		`<xnat:ID>100</xnat:ID>`,
		`<xnat:secondary_ID>100</xnat:secondary_ID>`,
		`<xnat:name>Radiology &amp; Imaging</xnat:name>`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("expected %s in %s", want, doc)
		}
	}
}
