package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

var importHeader = []string{"street", "city", "state", "zip", "latitude", "longitude"}

// ImportReport counts what a seed import did.
type ImportReport struct {
	Imported int
	Skipped  int
}

// ImportAddresses loads addresses from CSV with a
// street,city,state,zip,latitude,longitude header. Bad rows are logged and
// skipped; a store failure stops the import.
func ImportAddresses(ctx context.Context, store addressStore, r io.Reader) (ImportReport, error) {
	var report ImportReport

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(importHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return report, fmt.Errorf("error reading CSV header: %w", err)
	}
	for i, name := range importHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return report, fmt.Errorf("CSV column %d is %q, want %q", i+1, header[i], name)
		}
	}

	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("import: skipping line %d: %s", line, err)
			report.Skipped++
			continue
		}

		address, err := parseAddressRecord(fields)
		if err != nil {
			log.Printf("import: skipping line %d: %s", line, err)
			report.Skipped++
			continue
		}

		if err := store.AddAddress(ctx, &address); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				log.Printf("import: skipping line %d: %s", line, err)
				report.Skipped++
				continue
			}
			return report, fmt.Errorf("error importing line %d: %w", line, err)
		}
		report.Imported++
	}

	return report, nil
}

func parseAddressRecord(fields []string) (Address, error) {
	latitude, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return Address{}, fmt.Errorf("could not parse latitude %q", fields[4])
	}

	longitude, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 64)
	if err != nil {
		return Address{}, fmt.Errorf("could not parse longitude %q", fields[5])
	}

	address := Address{
		Street:    fields[0],
		City:      fields[1],
		State:     fields[2],
		Zip:       fields[3],
		Latitude:  latitude,
		Longitude: longitude,
	}

	if err := address.Validate(); err != nil {
		return Address{}, fmt.Errorf("zip %q: %w", address.Zip, err)
	}

	return address, nil
}

func seedFromFile(ctx context.Context, store addressStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening seed file: %w", err)
	}
	defer f.Close()

	report, err := ImportAddresses(ctx, store, f)
	if err != nil {
		return fmt.Errorf("error seeding addresses from %s: %w", path, err)
	}

	log.Printf("import: %d addresses imported, %d skipped from %s", report.Imported, report.Skipped, path)
	return nil
}
