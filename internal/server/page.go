package server

// indexHTML is the single-page upload UI: pick JPEGs, choose a format and
// worker count, poll conversion progress, download one ZIP.
const indexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>JPG/JPEG to WebP/AVIF</title>
  <style>
    :root {
      --bg: #0f172a;
      --card: #111827;
      --muted: #94a3b8;
      --text: #e2e8f0;
      --accent: #22c55e;
      --accent-2: #0ea5e9;
      --danger: #ef4444;
      --line: #1f2937;
      --ok: #34d399;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: "Segoe UI", -apple-system, sans-serif;
      color: var(--text);
      background: var(--bg);
      min-height: 100vh;
      display: grid;
      place-items: center;
      padding: 24px;
    }
    .card {
      width: min(720px, 100%);
      background: var(--card);
      border: 1px solid var(--line);
      border-radius: 16px;
      padding: 20px;
    }
    h1 { margin: 0 0 8px; font-size: 1.4rem; }
    p { margin: 0 0 16px; color: var(--muted); }
    .grid {
      display: grid;
      grid-template-columns: repeat(3, minmax(0, 1fr));
      gap: 12px;
      margin-top: 12px;
    }
    label { display: block; margin-bottom: 6px; font-weight: 600; }
    input, select, button {
      width: 100%;
      border-radius: 10px;
      border: 1px solid var(--line);
      background: #0b1220;
      color: var(--text);
      padding: 10px 12px;
      font-size: 0.95rem;
    }
    button {
      border: none;
      background: linear-gradient(90deg, var(--accent), var(--accent-2));
      color: #041014;
      font-weight: 700;
      cursor: pointer;
      margin-top: 14px;
    }
    button:disabled { opacity: 0.55; cursor: not-allowed; }
    .meta { margin-top: 8px; color: var(--muted); font-size: 0.9rem; }
    .progress-wrap {
      margin-top: 14px;
      border: 1px solid var(--line);
      border-radius: 12px;
      padding: 10px;
      background: #0b1220;
    }
    .bar {
      width: 100%;
      height: 12px;
      border-radius: 999px;
      background: #1e293b;
      overflow: hidden;
    }
    .bar-fill {
      height: 100%;
      width: 0%;
      background: linear-gradient(90deg, var(--accent), var(--accent-2));
      transition: width 0.2s ease;
    }
    .status { margin-top: 8px; font-size: 0.92rem; color: var(--muted); }
    .success { margin-top: 10px; color: var(--ok); font-weight: 600; display: none; }
    .error {
      margin-top: 12px;
      padding: 10px 12px;
      border: 1px solid var(--danger);
      border-radius: 10px;
      color: #fecaca;
      display: none;
    }
  </style>
</head>
<body>
  <main class="card">
    <h1>JPG/JPEG to WebP/AVIF Converter</h1>
    <p>Upload many images, pick one format, and download one ZIP file.</p>

    <form id="convertForm">
      <div>
        <label for="files">Images (.jpg/.jpeg)</label>
        <input id="files" name="files" type="file" multiple accept=".jpg,.jpeg,.JPG,.JPEG" required />
        <div id="fileMeta" class="meta">No files selected</div>
      </div>

      <div class="grid">
        <div>
          <label for="format">Format</label>
          <select id="format" name="format" required>
            <option value="webp" selected>WebP</option>
            <option value="avif">AVIF</option>
          </select>
        </div>

        <div>
          <label for="quality">Quality (1-100)</label>
          <input id="quality" name="quality" type="number" min="1" max="100" value="80" />
        </div>

        <div>
          <label for="workers">Parallel jobs (1-32)</label>
          <input id="workers" name="workers" type="number" min="1" max="32" value="12" />
        </div>
      </div>

      <button id="submitBtn" type="submit">Convert</button>

      <div class="progress-wrap">
        <div class="bar"><div id="barFill" class="bar-fill"></div></div>
        <div id="statusText" class="status">Idle</div>
      </div>

      <div id="successText" class="success"></div>
      <div id="errorText" class="error"></div>
    </form>
  </main>

  <script>
    const form = document.getElementById('convertForm');
    const fileInput = document.getElementById('files');
    const fileMeta = document.getElementById('fileMeta');
    const submitBtn = document.getElementById('submitBtn');
    const barFill = document.getElementById('barFill');
    const statusText = document.getElementById('statusText');
    const successText = document.getElementById('successText');
    const errorText = document.getElementById('errorText');

    function setError(msg) {
      errorText.textContent = msg;
      errorText.style.display = 'block';
    }

    function clearMessages() {
      errorText.style.display = 'none';
      successText.style.display = 'none';
    }

    fileInput.addEventListener('change', () => {
      const count = fileInput.files.length;
      fileMeta.textContent = count > 0 ? count + ' file(s) selected' : 'No files selected';
    });

    async function pollStatus(jobId) {
      while (true) {
        const res = await fetch('/status/' + jobId);
        if (!res.ok) {
          throw new Error('Status check failed.');
        }
        const data = await res.json();
        const pct = data.total > 0 ? Math.round((data.completed / data.total) * 100) : 0;
        barFill.style.width = pct + '%';
        statusText.textContent = data.state + ': ' + data.completed + '/' + data.total +
          ' (' + data.converted + ' converted, ' + data.skipped + ' skipped, ' + data.failed + ' failed)';

        if (data.state === 'done') {
          successText.style.display = 'block';
          successText.innerHTML = 'Conversion complete. <a href="/download/' + jobId +
            '" style="color:#86efac;">Download ZIP</a>';
          return;
        }

        if (data.state === 'error') {
          throw new Error(data.error || 'Conversion failed.');
        }

        await new Promise(r => setTimeout(r, 350));
      }
    }

    form.addEventListener('submit', async (e) => {
      e.preventDefault();
      clearMessages();

      if (fileInput.files.length === 0) {
        setError('Please select at least one JPG/JPEG file.');
        return;
      }

      submitBtn.disabled = true;
      barFill.style.width = '0%';
      statusText.textContent = 'Starting...';

      try {
        const formData = new FormData(form);
        const res = await fetch('/start', { method: 'POST', body: formData });
        const data = await res.json();

        if (!res.ok) {
          throw new Error(data.error || 'Failed to start conversion.');
        }

        await pollStatus(data.job_id);
      } catch (err) {
        setError(err.message || 'Something went wrong.');
      } finally {
        submitBtn.disabled = false;
      }
    });
  </script>
</body>
</html>
`
