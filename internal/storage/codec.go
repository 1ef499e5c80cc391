package storage

import (
	"encoding/json"
	"errors"

	"latticegpm/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func stamp() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

func EncodeMap(m model.MapRecord) ([]byte, error) {
	m.VersionedRecord = stamp()
	return json.Marshal(m)
}

func DecodeMap(data []byte) (model.MapRecord, error) {
	var record model.MapRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.MapRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.MapRecord{}, err
	}
	return record, nil
}

func EncodeRun(r model.RunRecord) ([]byte, error) {
	r.VersionedRecord = stamp()
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var record model.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return record, nil
}

func EncodeFold(f model.FoldRecord) ([]byte, error) {
	f.VersionedRecord = stamp()
	return json.Marshal(f)
}

func DecodeFold(data []byte) (model.FoldRecord, error) {
	var record model.FoldRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.FoldRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.FoldRecord{}, err
	}
	return record, nil
}

func EncodeConformations(c model.ConformationSet) ([]byte, error) {
	c.VersionedRecord = stamp()
	return json.Marshal(c)
}

func DecodeConformations(data []byte) (model.ConformationSet, error) {
	var set model.ConformationSet
	if err := json.Unmarshal(data, &set); err != nil {
		return model.ConformationSet{}, err
	}
	if err := checkVersion(set.VersionedRecord); err != nil {
		return model.ConformationSet{}, err
	}
	return set, nil
}

func EncodeEnergies(e model.EnergyTableRecord) ([]byte, error) {
	e.VersionedRecord = stamp()
	return json.Marshal(e)
}

func DecodeEnergies(data []byte) (model.EnergyTableRecord, error) {
	var record model.EnergyTableRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.EnergyTableRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.EnergyTableRecord{}, err
	}
	return record, nil
}
