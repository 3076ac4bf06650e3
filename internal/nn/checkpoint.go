package nn

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"argus/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("checkpoint version mismatch")

type checkpointLayer struct {
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	In         int       `json:"in,omitempty"`
	Out        int       `json:"out,omitempty"`
	KH         int       `json:"kh,omitempty"`
	KW         int       `json:"kw,omitempty"`
	Stride     int       `json:"stride,omitempty"`
	Activation string    `json:"activation,omitempty"`
	Weights    []float64 `json:"weights,omitempty"`
	Biases     []float64 `json:"biases,omitempty"`
}

type checkpointFile struct {
	model.VersionedRecord
	Game    string            `json:"game"`
	Actions int               `json:"actions"`
	Layers  []checkpointLayer `json:"layers"`
}

// SaveCheckpoint writes the network to a gzipped JSON checkpoint file.
func SaveCheckpoint(path string, network *Network) error {
	if network == nil {
		return errors.New("network is required")
	}
	file := checkpointFile{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: CurrentSchemaVersion,
			CodecVersion:  CurrentCodecVersion,
		},
		Game:    network.Game,
		Actions: network.Actions,
	}
	for _, layer := range network.Layers {
		switch l := layer.(type) {
		case *Conv2D:
			file.Layers = append(file.Layers, checkpointLayer{
				Name:       l.LayerName,
				Kind:       "conv2d",
				In:         l.In,
				Out:        l.Out,
				KH:         l.KH,
				KW:         l.KW,
				Stride:     l.Stride,
				Activation: l.Activation,
				Weights:    l.W,
				Biases:     l.B,
			})
		case *Flatten:
			file.Layers = append(file.Layers, checkpointLayer{Name: l.LayerName, Kind: "flatten"})
		case *Dense:
			file.Layers = append(file.Layers, checkpointLayer{
				Name:       l.LayerName,
				Kind:       "dense",
				In:         l.In,
				Out:        l.Out,
				Activation: l.Activation,
				Weights:    l.W.RawMatrix().Data,
				Biases:     l.B,
			})
		default:
			return fmt.Errorf("layer %s: unsupported kind %T", layer.Name(), layer)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(out)
	if err := json.NewEncoder(zw).Encode(file); err != nil {
		_ = zw.Close()
		_ = out.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// LoadCheckpoint reads a gzipped JSON checkpoint into a network.
func LoadCheckpoint(path string) (*Network, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", path, err)
	}
	defer zr.Close()

	var file checkpointFile
	if err := json.NewDecoder(zr).Decode(&file); err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", path, err)
	}
	if file.SchemaVersion != CurrentSchemaVersion || file.CodecVersion != CurrentCodecVersion {
		return nil, ErrVersionMismatch
	}

	network := &Network{Game: file.Game, Actions: file.Actions}
	for _, cl := range file.Layers {
		switch cl.Kind {
		case "conv2d":
			conv := NewConv2D(cl.Name, cl.In, cl.Out, cl.KH, cl.KW, cl.Stride, cl.Activation)
			if len(cl.Weights) != len(conv.W) || len(cl.Biases) != len(conv.B) {
				return nil, fmt.Errorf("layer %s: parameter count mismatch", cl.Name)
			}
			copy(conv.W, cl.Weights)
			copy(conv.B, cl.Biases)
			network.Layers = append(network.Layers, conv)
		case "flatten":
			network.Layers = append(network.Layers, &Flatten{LayerName: cl.Name})
		case "dense":
			if len(cl.Weights) != cl.In*cl.Out || len(cl.Biases) != cl.Out {
				return nil, fmt.Errorf("layer %s: parameter count mismatch", cl.Name)
			}
			dense := NewDense(cl.Name, cl.In, cl.Out, cl.Activation)
			dense.W = mat.NewDense(cl.In, cl.Out, append([]float64(nil), cl.Weights...))
			copy(dense.B, cl.Biases)
			network.Layers = append(network.Layers, dense)
		default:
			return nil, fmt.Errorf("layer %s: unsupported kind %s", cl.Name, cl.Kind)
		}
	}
	return network, nil
}
