package main

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
	"sheetEngine/contracts"
	"sheetEngine/spreadsheet"
)

// SheetRepository keeps one Spreadsheet per sheet id. Every sheet is backed by
// a bbolt bucket holding one record per present cell, and is rebuilt from that
// bucket the first time it is used.
type SheetRepository struct {
	db                *bbolt.DB
	serializer        contracts.CellSerializer
	canonicalizer     contracts.Canonicalizer
	webhookDispatcher contracts.WebhookDispatcher
	metrics           *Metrics
	logger            logrus.FieldLogger
	sheetOptions      []spreadsheet.Option

	mutex  sync.Mutex
	sheets map[string]*spreadsheet.Spreadsheet
}

func NewSheetRepository(
	db *bbolt.DB, serializer contracts.CellSerializer, canonicalizer contracts.Canonicalizer,
	webhookDispatcher contracts.WebhookDispatcher, metrics *Metrics, logger logrus.FieldLogger,
	sheetOptions ...spreadsheet.Option,
) *SheetRepository {
	return &SheetRepository{
		db:                db,
		serializer:        serializer,
		canonicalizer:     canonicalizer,
		webhookDispatcher: webhookDispatcher,
		metrics:           metrics,
		logger:            logger,
		sheetOptions:      sheetOptions,
		sheets:            map[string]*spreadsheet.Spreadsheet{},
	}
}

func (s *SheetRepository) SetCell(sheetId string, cellId string, value string) (cell *contracts.Cell, updated []*contracts.Cell, err error) {
	sheetId = s.canonicalizer.CanonicalizeSheetId(sheetId)
	cellId = s.canonicalizer.CanonicalizeCellId(cellId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, err := s.loadSheet(sheetId, true)
	if err != nil {
		return
	}

	previous, err := sheet.GetContents(cellId)
	if err != nil {
		s.rejectEdit(sheetId, cellId, err)
		return
	}

	recalculated, err := sheet.SetContents(cellId, value)
	if err != nil {
		s.rejectEdit(sheetId, cellId, err)
		return
	}

	err = s.persistCell(sheetId, sheet, cellId)
	if err != nil {
		if _, rollbackErr := sheet.SetContents(cellId, previous.String()); rollbackErr != nil {
			s.logger.WithError(rollbackErr).WithField("sheet", sheetId).WithField("cell", cellId).
				Error("restore previous contents")
		}
		s.logger.WithError(err).WithField("sheet", sheetId).WithField("cell", cellId).Error("persist cell")
		s.metrics.ObserveEdit(0, err)
		return
	}

	sheet.MarkSaved()
	s.sheets[sheetId] = sheet

	updated = make([]*contracts.Cell, 0, len(recalculated))
	for _, name := range recalculated {
		updated = append(updated, makeCell(sheet, name))
	}
	cell = updated[0]

	if s.webhookDispatcher != nil {
		s.webhookDispatcher.Notify(sheetId, updated)
	}
	s.metrics.ObserveEdit(len(recalculated), nil)

	return
}

func (s *SheetRepository) GetCell(sheetId string, cellId string) (*contracts.Cell, error) {
	sheetId = s.canonicalizer.CanonicalizeSheetId(sheetId)
	cellId = s.canonicalizer.CanonicalizeCellId(cellId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, err := s.loadSheet(sheetId, false)
	if err != nil {
		return nil, err
	}

	// an invalid name can never hold contents, so it is reported the same way
	contents, err := sheet.GetContents(cellId)
	if err != nil || isEmpty(contents) {
		return nil, fmt.Errorf("%s: %w", cellId, contracts.CellNotFoundError)
	}

	return makeCell(sheet, cellId), nil
}

func (s *SheetRepository) GetCellList(sheetId string) (contracts.CellList, error) {
	sheetId = s.canonicalizer.CanonicalizeSheetId(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, err := s.loadSheet(sheetId, false)
	if err != nil {
		return nil, err
	}

	cellList := contracts.CellList{}
	for _, name := range sheet.NonEmptyCells() {
		cellList[name] = makeCell(sheet, name)
	}

	return cellList, nil
}

// loadSheet returns the cached sheet or rebuilds it from its bucket. A sheet
// without a bucket is SheetNotFoundError unless create is set; a created sheet
// is only cached once its first edit has been persisted.
func (s *SheetRepository) loadSheet(sheetId string, create bool) (*spreadsheet.Spreadsheet, error) {
	if sheet, ok := s.sheets[sheetId]; ok {
		return sheet, nil
	}

	var records []spreadsheet.Record
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sheetId))
		if bucket == nil {
			return nil
		}
		found = true

		return bucket.ForEach(func(k, v []byte) error {
			record, err := s.serializer.Unmarshal(v)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", sheetId, k, err)
			}
			records = append(records, record)
			return nil
		})
	})

	if err != nil {
		s.logger.WithError(err).WithField("sheet", sheetId).Error("read sheet")
		return nil, err
	}

	if !found {
		if !create {
			return nil, fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
		}
		return spreadsheet.New(s.sheetOptions...), nil
	}

	sheet, err := spreadsheet.Load(records, s.sheetOptions...)
	if err != nil {
		s.logger.WithError(err).WithField("sheet", sheetId).Error("replay sheet")
		return nil, err
	}

	s.sheets[sheetId] = sheet
	if s.metrics != nil {
		s.metrics.LoadedSheets.Inc()
	}
	s.logger.WithField("sheet", sheetId).WithField("cells", len(records)).Debug("sheet loaded")

	return sheet, nil
}

// persistCell writes the current contents of name, deleting the record when
// the cell became empty.
func (s *SheetRepository) persistCell(sheetId string, sheet *spreadsheet.Spreadsheet, name string) error {
	contents, err := sheet.GetContents(name)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(sheetId))
		if err != nil {
			return err
		}

		if isEmpty(contents) {
			return bucket.Delete([]byte(name))
		}

		record := spreadsheet.Record{Name: name, Contents: contents.String()}
		return bucket.Put([]byte(name), s.serializer.Marshal(record))
	})
}

func (s *SheetRepository) rejectEdit(sheetId string, cellId string, err error) {
	s.logger.WithError(err).WithField("sheet", sheetId).WithField("cell", cellId).Info("edit rejected")
	s.metrics.ObserveEdit(0, err)
}

func makeCell(sheet *spreadsheet.Spreadsheet, name string) *contracts.Cell {
	cell := &contracts.Cell{CanonicalKey: name}

	if contents, err := sheet.GetContents(name); err == nil {
		cell.Value = contents.String()
	}
	if value, err := sheet.GetValue(name); err == nil {
		cell.Result = value.String()
	}

	return cell
}

func isEmpty(contents spreadsheet.Contents) bool {
	text, ok := contents.(spreadsheet.Text)
	return ok && text == ""
}
