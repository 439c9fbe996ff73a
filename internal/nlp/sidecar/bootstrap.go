package sidecar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	scriptName       = "nlp_worker.py"
	requirementsName = "requirements.txt"
	installedMarker  = ".requirements.installed"
)

var corpora = []string{"wordnet", "omw-1.4"}

func (p *Pool) venvDir() string     { return filepath.Join(p.cfg.Dir, "venv") }
func (p *Pool) scriptPath() string  { return filepath.Join(p.cfg.Dir, scriptName) }
func (p *Pool) nltkDataDir() string { return filepath.Join(p.cfg.Dir, "nltk_data") }

func (p *Pool) venvPython() string {
	return filepath.Join(p.venvDir(), "bin", "python")
}

// setupEnvironment makes sure the venv, packages, spaCy model and WordNet
// corpora exist. Each step is skipped when already done.
func (p *Pool) setupEnvironment(ctx context.Context) error {
	if err := os.MkdirAll(p.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", p.cfg.Dir, err)
	}
	if err := writeIfChanged(p.scriptPath(), workerScript); err != nil {
		return err
	}
	if err := writeIfChanged(filepath.Join(p.cfg.Dir, requirementsName), requirementsTxt); err != nil {
		return err
	}

	out, err := p.runCommand(ctx, p.cfg.Python, "--version")
	if err != nil {
		return fmt.Errorf("python not found (%s): %w", p.cfg.Python, err)
	}
	p.logger.Debug("nlp sidecar: using %s", bytes.TrimSpace(out))

	if _, err := os.Stat(p.venvPython()); errors.Is(err, os.ErrNotExist) {
		p.logger.Info("nlp sidecar: creating virtualenv in %s", p.venvDir())
		if _, err := p.runCommand(ctx, p.cfg.Python, "-m", "venv", p.venvDir()); err != nil {
			return fmt.Errorf("create venv: %w", err)
		}
	}

	if err := p.installRequirements(ctx); err != nil {
		return err
	}
	if err := p.ensureModel(ctx); err != nil {
		return err
	}
	return p.ensureCorpora(ctx)
}

func (p *Pool) installRequirements(ctx context.Context) error {
	marker := filepath.Join(p.cfg.Dir, installedMarker)
	if have, err := os.ReadFile(marker); err == nil && bytes.Equal(have, requirementsTxt) {
		return nil
	}
	p.logger.Info("nlp sidecar: installing python requirements")
	_, err := p.runCommand(ctx, p.venvPython(), "-m", "pip", "install", "-q", "-r",
		filepath.Join(p.cfg.Dir, requirementsName))
	if err != nil {
		return fmt.Errorf("install requirements: %w", err)
	}
	return os.WriteFile(marker, requirementsTxt, 0o644)
}

func (p *Pool) ensureModel(ctx context.Context) error {
	check := fmt.Sprintf("import sys, spacy.util; sys.exit(0 if spacy.util.is_package(%q) else 1)", p.cfg.Model)
	if _, err := p.runCommand(ctx, p.venvPython(), "-c", check); err == nil {
		return nil
	}
	p.logger.Info("nlp sidecar: downloading spaCy model %s", p.cfg.Model)
	if _, err := p.runCommand(ctx, p.venvPython(), "-m", "spacy", "download", p.cfg.Model); err != nil {
		return fmt.Errorf("download spaCy model %s: %w", p.cfg.Model, err)
	}
	return nil
}

func (p *Pool) ensureCorpora(ctx context.Context) error {
	var missing []string
	for _, name := range corpora {
		dir := filepath.Join(p.nltkDataDir(), "corpora", name)
		if !exists(dir) && !exists(dir+".zip") {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	p.logger.Info("nlp sidecar: downloading NLTK corpora %v", missing)
	args := append([]string{"-m", "nltk.downloader", "-q", "-d", p.nltkDataDir()}, missing...)
	if _, err := p.runCommand(ctx, p.venvPython(), args...); err != nil {
		return fmt.Errorf("download NLTK corpora: %w", err)
	}
	return nil
}

func (p *Pool) runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%w: %s", err, bytes.TrimSpace(out))
	}
	return out, nil
}

// spawnProcess starts one worker interpreter and waits for it to load
// the model.
func (p *Pool) spawnProcess(ctx context.Context, id int) (*worker, error) {
	cmd := exec.Command(p.venvPython(), p.scriptPath())
	cmd.Env = append(os.Environ(), "NLTK_DATA="+p.nltkDataDir())
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker: %w", err)
	}

	w := newWorker(id, stdin, stdout, func() error {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = cmd.Wait()
		return nil
	})
	ready, err := w.handshake(ctx, workerConfig{Model: p.cfg.Model, NLTKData: p.nltkDataDir()})
	if err != nil {
		_ = w.close()
		return nil, err
	}
	p.logger.Debug("nlp worker %d ready: model=%s pipeline=%v", id, ready.Model, ready.Pipeline)
	return w, nil
}

func writeIfChanged(path string, data []byte) error {
	if have, err := os.ReadFile(path); err == nil && bytes.Equal(have, data) {
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
