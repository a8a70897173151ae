package main

import (
	"errors"
	"io"
	"os"

	"github.com/wcrypt/wcrypt/internal/contentenc"
	"github.com/wcrypt/wcrypt/internal/cryptocore"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/exitcodes"
	"github.com/wcrypt/wcrypt/internal/tlog"
)

// streamFunc is ContentEnc.EncryptStream or ContentEnc.DecryptStream
type streamFunc func(dst io.Writer, src io.Reader) (int64, error)

// inputFile tags read errors with exitcodes.InputFile. io.EOF passes
// through untouched.
type inputFile struct {
	*os.File
}

func (f inputFile) Read(p []byte) (int, error) {
	n, err := f.File.Read(p)
	if err != nil && err != io.EOF {
		err = exitcodes.Wrap(err, exitcodes.InputFile)
	}
	return n, err
}

// outputFile tags write errors with exitcodes.OutputFile
type outputFile struct {
	*os.File
}

func (f outputFile) Write(p []byte) (int, error) {
	n, err := f.File.Write(p)
	if err != nil {
		err = exitcodes.Wrap(err, exitcodes.OutputFile)
	}
	return n, err
}

// newContentEnc unlocks the config file and sets up the content encryption
// for the cipher and mode recorded in it.
func newContentEnc(args *argContainer) (*contentenc.ContentEnc, *cryptocore.CryptoCore, error) {
	key, cf, err := loadConfig(args)
	if err != nil {
		return nil, nil, err
	}
	c, m := cf.ParsedCipher()
	cc, err := cryptocore.New(engine.New(), c, m, key, args.workers)
	for i := range key {
		key[i] = 0
	}
	if err != nil {
		return nil, nil, exitcodes.Wrap(err, exitcodes.Cipher)
	}
	ce := contentenc.New(cc, contentenc.DefaultChunkSize)
	tlog.Debug.Printf("newContentEnc: %s/%s, %d workers, %d-byte chunks", c, m, args.workers, ce.ChunkSize())
	return ce, cc, nil
}

// encryptFile encrypts args.in to args.out.
// This is called when you pass the "-encrypt" option.
func encryptFile(args *argContainer) error {
	ce, cc, err := newContentEnc(args)
	if err != nil {
		return err
	}
	defer cc.Wipe()
	n, err := streamFile(args.in, args.out, ce.EncryptStream)
	if err != nil {
		return err
	}
	tlog.Info.Printf("Encrypted %d bytes to %s", n, args.out)
	return nil
}

// decryptFile decrypts args.in to args.out.
// This is called when you pass the "-decrypt" option.
func decryptFile(args *argContainer) error {
	ce, cc, err := newContentEnc(args)
	if err != nil {
		return err
	}
	defer cc.Wipe()
	n, err := streamFile(args.in, args.out, ce.DecryptStream)
	if err != nil {
		return err
	}
	tlog.Info.Printf("Decrypted %d bytes to %s", n, args.out)
	return nil
}

// streamFile runs "f" from "inPath" to a newly created "outPath". The output
// file is removed again if anything fails, so a partial result never stays
// behind.
func streamFile(inPath, outPath string, f streamFunc) (n int64, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, exitcodes.Wrap(err, exitcodes.InputFile)
	}
	defer in.Close()
	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return 0, exitcodes.Wrap(err, exitcodes.OutputFile)
	}
	n, err = f(outputFile{out}, inputFile{in})
	if err == nil {
		err = out.Sync()
	}
	if err2 := out.Close(); err == nil && err2 != nil {
		err = exitcodes.Wrap(err2, exitcodes.OutputFile)
	}
	if err != nil {
		os.Remove(outPath)
		return n, classifyStreamErr(err)
	}
	return n, nil
}

// classifyStreamErr attaches an exit code to errors coming out of
// ContentEnc that do not carry one yet.
func classifyStreamErr(err error) error {
	var ec exitcodes.Err
	if errors.As(err, &ec) {
		return err
	}
	for _, e := range []error{contentenc.ErrBadHeader, contentenc.ErrTruncated,
		contentenc.ErrBadPadding, contentenc.ErrHeaderMismatch} {
		if errors.Is(err, e) {
			return exitcodes.Wrap(err, exitcodes.Decrypt)
		}
	}
	return exitcodes.Wrap(err, exitcodes.Other)
}
