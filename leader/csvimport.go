package leader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// csvHeaders are the columns a camper import file must carry.
var csvHeaders = []string{"first_name", "last_name", "date_of_birth"}

// importSummary counts the rows set aside while reading an import file.
type importSummary struct {
	missingFields   int
	alreadyAssigned int
}

// importCampersFlow bulk-registers campers from a CSV file into one of the
// leader's active camps.
func (l *Interface) importCampersFlow() {
	ui.ClearScreen(l.out)
	ui.Header(l.out, false)

	camp := l.chooseActiveCamp()
	if camp == nil {
		return
	}

	occupied, err := l.store.CampOccupancy(camp.ID)
	if err != nil {
		l.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not count campers")
		l.reportError("Could not check the camp occupancy.")
		return
	}
	available := camp.Capacity - occupied
	if available <= 0 {
		l.pressEnter("This camp is already full. Cannot import more campers.")
		return
	}

	fmt.Fprintf(l.out, "\n--- Bulk assigning campers to %s ---\n\n", camp.Name)

	campers, summary, ok := l.readImportFile()
	if !ok {
		return
	}

	skipped := summary.missingFields + summary.alreadyAssigned
	if skipped > 0 {
		fmt.Fprintf(l.out, "\n%d camper(s) were skipped while processing the file:\n", skipped)
		if summary.missingFields > 0 {
			fmt.Fprintf(l.out, " - %d missing required fields\n", summary.missingFields)
		}
		if summary.alreadyAssigned > 0 {
			fmt.Fprintf(l.out, " - %d already assigned to another camp\n", summary.alreadyAssigned)
		}
	} else {
		fmt.Fprintln(l.out, "\nNo campers were skipped while processing the file.")
	}

	fmt.Fprintf(l.out, "\nAvailable campers contained in the CSV: %d\n", len(campers))
	fmt.Fprintf(l.out, "Camp capacity: %d\n", camp.Capacity)
	fmt.Fprintf(l.out, "Currently occupied: %d\n", occupied)

	if len(campers) == 0 {
		l.pressEnter("There are no campers available to be added to this camp.")
		return
	}

	maxImport := len(campers)
	if available < maxImport {
		maxImport = available
	}

	amount, ok := l.promptImportCount(maxImport)
	if !ok {
		return
	}

	inserted, err := l.store.ImportCampers(camp.ID, campers[:amount])
	if err != nil {
		l.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not import campers")
		l.reportError("Could not import the campers.")
		return
	}
	l.logger.Info().Int64("camp_id", camp.ID).Int("count", inserted).Msg("campers imported")
	l.reportSuccess(fmt.Sprintf("Imported %d camper(s) into %s.", inserted, camp.Name))
}

// readImportFile prompts for a CSV path until one parses, then returns the
// importable campers and a summary of skipped rows.
func (l *Interface) readImportFile() ([]storage.CamperImport, importSummary, bool) {
	for {
		path, ok := l.readLine("Please enter the path to the csv file: ")
		if !ok {
			return nil, importSummary{}, false
		}

		file, err := os.Open(strings.TrimSpace(path))
		if err != nil {
			fmt.Fprintln(l.out, "File not found. Please check the path again.")
			continue
		}

		campers, summary, err := l.parseImportFile(file)
		file.Close()
		if err != nil {
			fmt.Fprintln(l.out, "Invalid CSV format.")
			fmt.Fprintln(l.out, err.Error())
			fmt.Fprintln(l.out, "Required headers: first_name, last_name, date_of_birth")
			fmt.Fprintln(l.out, "Please try again.")
			continue
		}
		return campers, summary, true
	}
}

func (l *Interface) parseImportFile(file io.Reader) ([]storage.CamperImport, importSummary, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, importSummary{}, fmt.Errorf("the CSV file appears to be empty or missing a header row")
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvHeaders {
		if _, found := columns[required]; !found {
			return nil, importSummary{}, fmt.Errorf("the required field %q is missing from the CSV", required)
		}
	}

	var (
		campers []storage.CamperImport
		summary importSummary
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.missingFields++
			continue
		}

		first := fieldAt(record, columns["first_name"])
		last := fieldAt(record, columns["last_name"])
		dob := fieldAt(record, columns["date_of_birth"])
		if first == "" || last == "" || dob == "" {
			summary.missingFields++
			continue
		}

		name := first + " " + last

		// A camper registered anywhere in the system is skipped so nobody
		// ends up in two overlapping camps.
		exists, err := l.store.CamperExists(name, dob)
		if err != nil {
			return nil, importSummary{}, err
		}
		if exists {
			summary.alreadyAssigned++
			continue
		}

		campers = append(campers, storage.CamperImport{Name: name, DateOfBirth: dob})
	}

	return campers, summary, nil
}

func fieldAt(record []string, index int) string {
	if index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func (l *Interface) promptImportCount(maxImport int) (int, bool) {
	for {
		raw, ok := l.readLine(fmt.Sprintf("\nHow many campers would you like to import? (1 to %d): ", maxImport))
		if !ok {
			return 0, false
		}
		amount, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || amount < 1 || amount > maxImport {
			fmt.Fprintf(l.out, "Number must be between 1 and %d. Please try again.\n", maxImport)
			continue
		}
		return amount, true
	}
}
