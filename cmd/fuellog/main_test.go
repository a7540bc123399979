package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pkordes/fuel-logbook/internal/domain"
)

const backup = `[
  {"id":1,"date":"2026-02-15","destination":"市政府","reason":"公務","user":"Lin","startKm":1000,"endKm":1040,"lastFuelKm":null,"currentFuelKm":null,"fuelLiters":null,"fuelConsumption":null},
  {"id":2,"date":"2026-02-15","destination":"港口","reason":"公務","user":"Chen","startKm":1040,"endKm":1060,"lastFuelKm":700,"currentFuelKm":1020,"fuelLiters":32,"fuelConsumption":null},
  {"id":3,"date":"2026-02-16","destination":"車站","reason":"","user":"Lin","startKm":1060,"endKm":1100,"lastFuelKm":null,"currentFuelKm":null,"fuelLiters":null,"fuelConsumption":null}
]`

// fixtures writes a backup and a blank template into a temp dir.
func fixtures(t *testing.T, records string) (recordsPath, templatePath, outDir string) {
	t.Helper()
	dir := t.TempDir()

	recordsPath = filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(recordsPath, []byte(records), 0o644))

	f := excelize.NewFile()
	defer f.Close()
	templatePath = filepath.Join(dir, "template.xlsx")
	require.NoError(t, f.SaveAs(templatePath))

	return recordsPath, templatePath, filepath.Join(dir, "out")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDispatchCommand(t *testing.T) {
	records, tmpl, out := fixtures(t, backup)

	stdout, err := run(t, "dispatch", "--records", records, "--template", tmpl, "--out", out)

	require.NoError(t, err)
	assert.Contains(t, stdout, "3 document(s) written")
	for _, name := range []string{
		"派車單里程_2026-02-15_Lin.xlsx",
		"派車單里程_2026-02-15_Chen.xlsx",
		"派車單里程_2026-02-16_Lin.xlsx",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	f, err := excelize.OpenFile(filepath.Join(out, "派車單里程_2026-02-15_Chen.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sheet1", "E23")
	require.NoError(t, err)
	assert.Equal(t, "32", v)
}

func TestFuelLogCommand(t *testing.T) {
	records, tmpl, out := fixtures(t, backup)

	stdout, err := run(t, "fuel-log", "-r", records, "-t", tmpl, "-o", out, "--from", "2026-02-16")

	require.NoError(t, err)
	assert.Contains(t, stdout, "1 document(s) written")
	assert.FileExists(t, filepath.Join(out, "消耗油料登記表_115-02.xlsx"))
}

func TestFuelLogCommand_EmptyBackup(t *testing.T) {
	records, tmpl, out := fixtures(t, `[]`)

	stdout, err := run(t, "fuel-log", "-r", records, "-t", tmpl, "-o", out)

	require.NoError(t, err)
	assert.Contains(t, stdout, "0 document(s) written")
}

func TestDispatchCommand_EmptyBackup(t *testing.T) {
	records, tmpl, out := fixtures(t, `[]`)

	_, err := run(t, "dispatch", "-r", records, "-t", tmpl, "-o", out)

	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestDispatchCommand_MissingTemplate(t *testing.T) {
	records, _, out := fixtures(t, backup)

	_, err := run(t, "dispatch", "-r", records, "-t", filepath.Join(out, "nope.xlsx"), "-o", out)

	assert.ErrorIs(t, err, domain.ErrTemplateFetch)
}

func TestDispatchCommand_RecordsRequired(t *testing.T) {
	_, err := run(t, "dispatch")

	assert.ErrorContains(t, err, "records")
}

func TestDispatchCommand_InvalidBackup(t *testing.T) {
	records, tmpl, out := fixtures(t, `[{"date":"2026-02-15","destination":"","user":"Lin","endKm":10}]`)

	_, err := run(t, "dispatch", "-r", records, "-t", tmpl, "-o", out)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDispatchCommand_ReversedOdometerBackup(t *testing.T) {
	records, tmpl, out := fixtures(t, `[
		{"date":"2026-02-15","destination":"A","user":"Lin","startKm":150,"endKm":120},
		{"date":"2026-02-15","destination":"B","user":"Lin ","startKm":120,"endKm":130}
	]`)

	stdout, err := run(t, "dispatch", "-r", records, "-t", tmpl, "-o", out)

	require.NoError(t, err)
	assert.Contains(t, stdout, "1 document(s) written")
	assert.FileExists(t, filepath.Join(out, "派車單里程_2026-02-15_Lin.xlsx"))
}
